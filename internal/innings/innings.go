// Package innings decides when an innings is over, moves a match from the
// first innings to the second and settles the result.
package innings

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
)

// Reason explains why an innings ended.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonAllOut        Reason = "all_out"
	ReasonOversComplete Reason = "overs_complete"
	ReasonTargetReached Reason = "target_reached"
)

// Ended reports whether the current innings can no longer continue under the
// match rules.
func Ended(s *domain.MatchState) (bool, Reason) {
	switch {
	case s.Innings == 2 && s.FirstInnings != nil && s.Runs > s.FirstInnings.Runs:
		return true, ReasonTargetReached
	case s.Wickets >= s.Rules.WicketsPerInnings:
		return true, ReasonAllOut
	case s.LegalBalls() >= s.Rules.BallsPerInnings():
		return true, ReasonOversComplete
	}
	return false, ReasonNone
}

// Target is the score the second innings must reach to win. It is only
// available once the second innings has started.
func Target(s *domain.MatchState) (int, bool) {
	if s.Innings != 2 || s.FirstInnings == nil {
		return 0, false
	}
	return s.FirstInnings.Runs + 1, true
}

// Summarize captures the closing score of the current innings.
func Summarize(s *domain.MatchState) domain.InningsSummary {
	return domain.InningsSummary{
		BattingTeamID: s.BattingTeamID,
		Runs:          s.Runs,
		Wickets:       s.Wickets,
		LegalBalls:    s.LegalBalls(),
	}
}

// Transition moves a match from innings one to innings two: the first-innings
// summary is recorded, the sides swap and every innings counter and slot is
// cleared. The ledger is not touched.
func Transition(s *domain.MatchState) domain.InningsSummary {
	summary := Summarize(s)
	s.FirstInnings = &summary
	s.Innings = 2
	s.BattingTeamID, s.BowlingTeamID = s.BowlingTeamID, s.BattingTeamID
	resetCounters(s)
	return summary
}

func resetCounters(s *domain.MatchState) {
	s.Runs, s.Wickets, s.Extras = 0, 0, 0
	s.Overs, s.Balls = 0, 0
	s.StrikerID, s.NonStrikerID = uuid.Nil, uuid.Nil
	s.BowlerID, s.PreviousBowlerID = uuid.Nil, uuid.Nil
	s.ThisOver = []domain.Ball{}
	s.CurrentRunRate, s.RequiredRunRate = nil, nil
}

// Decide compares the two innings. The second innings must be in progress or
// finished.
func Decide(s *domain.MatchState) domain.Result {
	if s.FirstInnings == nil {
		return domain.Result{Kind: domain.ResultAbandoned}
	}
	first, second := s.FirstInnings.Runs, s.Runs
	switch {
	case first > second:
		return domain.Result{Kind: domain.ResultRunsWin, WinnerID: s.BowlingTeamID, Margin: first - second}
	case second > first:
		return domain.Result{
			Kind:     domain.ResultWicketsWin,
			WinnerID: s.BattingTeamID,
			Margin:   s.Rules.WicketsPerInnings - s.Wickets,
		}
	default:
		return domain.Result{Kind: domain.ResultTie}
	}
}

// Complete closes the match with the given result.
func Complete(s *domain.MatchState, r domain.Result) {
	s.Status = domain.StatusCompleted
	s.Result = &r
	s.RequiredRunRate = nil
}
