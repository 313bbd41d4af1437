package innings

import (
	"testing"
	"time"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveMatch(t *testing.T) domain.MatchState {
	t.Helper()
	s := domain.NewUpcomingMatch(uuid.New(), uuid.New(), uuid.New(), "", time.Now(), domain.DefaultRules())
	require.NoError(t, s.ApplyToss(domain.Toss{WinnerID: s.HomeTeamID, Decision: domain.TossBat}))
	s.Status = domain.StatusLive
	return s
}

// --- Ended Tests ---

func TestEnded(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.MatchState)
		ended  bool
		reason Reason
	}{
		{"fresh innings", func(s *domain.MatchState) {}, false, ReasonNone},
		{"nine down", func(s *domain.MatchState) { s.Wickets = 9 }, false, ReasonNone},
		{"all out", func(s *domain.MatchState) { s.Wickets = 10 }, true, ReasonAllOut},
		{"overs exhausted", func(s *domain.MatchState) { s.Overs = 10 }, true, ReasonOversComplete},
		{"last over bowled awaiting completion", func(s *domain.MatchState) { s.Overs, s.Balls = 9, 6 }, true, ReasonOversComplete},
		{"one ball left", func(s *domain.MatchState) { s.Overs, s.Balls = 9, 5 }, false, ReasonNone},
		{"innings one scoring is never a chase", func(s *domain.MatchState) { s.Runs = 500 }, false, ReasonNone},
		{"chase level", func(s *domain.MatchState) {
			s.Innings = 2
			s.FirstInnings = &domain.InningsSummary{Runs: 150}
			s.Runs = 150
		}, false, ReasonNone},
		{"chase passed", func(s *domain.MatchState) {
			s.Innings = 2
			s.FirstInnings = &domain.InningsSummary{Runs: 150}
			s.Runs = 151
		}, true, ReasonTargetReached},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := liveMatch(t)
			tt.mutate(&s)
			ended, reason := Ended(&s)
			assert.Equal(t, tt.ended, ended)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestEnded_CustomRules(t *testing.T) {
	s := liveMatch(t)
	s.Rules = domain.Rules{OversPerInnings: 2, WicketsPerInnings: 3}
	s.Wickets = 3
	ended, reason := Ended(&s)
	assert.True(t, ended)
	assert.Equal(t, ReasonAllOut, reason)
}

// --- Transition Tests ---

func TestTransition(t *testing.T) {
	s := liveMatch(t)
	firstBatting := s.BattingTeamID
	s.Runs, s.Wickets, s.Extras, s.Overs = 150, 7, 9, 10
	s.StrikerID, s.NonStrikerID, s.PreviousBowlerID = uuid.New(), uuid.New(), uuid.New()
	s.ThisOver = []domain.Ball{{Runs: 1}}

	_, ok := Target(&s)
	assert.False(t, ok)

	summary := Transition(&s)
	assert.Equal(t, domain.InningsSummary{BattingTeamID: firstBatting, Runs: 150, Wickets: 7, LegalBalls: 60}, summary)
	assert.Equal(t, 2, s.Innings)
	assert.Equal(t, firstBatting, s.BowlingTeamID)
	assert.Zero(t, s.Runs)
	assert.Zero(t, s.Wickets)
	assert.Zero(t, s.Overs)
	assert.Zero(t, s.Balls)
	assert.Equal(t, uuid.Nil, s.StrikerID)
	assert.Equal(t, uuid.Nil, s.NonStrikerID)
	assert.Equal(t, uuid.Nil, s.PreviousBowlerID)
	assert.Empty(t, s.ThisOver)

	target, ok := Target(&s)
	require.True(t, ok)
	assert.Equal(t, 151, target)
}

// --- Decide Tests ---

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		first   int
		second  int
		wickets int
		kind    domain.ResultKind
		margin  int
		batting bool
	}{
		{"chasing side wins by 5 wickets", 150, 151, 5, domain.ResultWicketsWin, 5, true},
		{"defending side wins by 30 runs", 150, 120, 10, domain.ResultRunsWin, 30, false},
		{"tie", 150, 150, 10, domain.ResultTie, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := liveMatch(t)
			s.Runs = tt.first
			Transition(&s)
			s.Runs, s.Wickets = tt.second, tt.wickets

			r := Decide(&s)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.margin, r.Margin)
			switch {
			case tt.kind == domain.ResultTie:
				assert.Equal(t, uuid.Nil, r.WinnerID)
			case tt.batting:
				assert.Equal(t, s.BattingTeamID, r.WinnerID)
			default:
				assert.Equal(t, s.BowlingTeamID, r.WinnerID)
			}
		})
	}
}

func TestDecide_FirstInnings(t *testing.T) {
	s := liveMatch(t)
	assert.Equal(t, domain.ResultAbandoned, Decide(&s).Kind)
}

func TestComplete(t *testing.T) {
	s := liveMatch(t)
	v := 7.5
	s.RequiredRunRate = &v
	Complete(&s, domain.Result{Kind: domain.ResultTie})
	assert.Equal(t, domain.StatusCompleted, s.Status)
	require.NotNil(t, s.Result)
	assert.Equal(t, domain.ResultTie, s.Result.Kind)
	assert.Nil(t, s.RequiredRunRate)
}
