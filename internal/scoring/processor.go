// Package scoring applies scorer events to a match aggregate.
//
// Every command follows the same shape: Validate → Mutate a working copy →
// Re-check invariants. The input aggregate is never modified, so a rejected
// event leaves the caller holding the last good state.
package scoring

import (
	"log/slog"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/creasebook/scoring/internal/stats"
	"github.com/google/uuid"
)

// OutcomeCode summarizes what an applied event did.
type OutcomeCode string

const (
	OutcomeApplied        OutcomeCode = "applied"
	OutcomeWicket         OutcomeCode = "wicket"
	OutcomeOverCompleted  OutcomeCode = "over_completed"
	OutcomeInningsEnded   OutcomeCode = "innings_ended"
	OutcomeInningsChanged OutcomeCode = "innings_changed"
	OutcomeMatchCompleted OutcomeCode = "match_completed"
)

// Outcome tells the scorer what the match needs next.
type Outcome struct {
	Code             OutcomeCode            `json:"code"`
	NeedsBatsman     bool                   `json:"needs_batsman"`
	NeedsBowler      bool                   `json:"needs_bowler"`
	InningsEnded     bool                   `json:"innings_ended"`
	InningsEndReason innings.Reason         `json:"innings_end_reason,omitempty"`
	MatchCompleted   bool                   `json:"match_completed"`
	FirstInnings     *domain.InningsSummary `json:"first_innings,omitempty"`
}

// Processor applies delivery events. It holds no match state and is safe for
// concurrent use.
type Processor struct {
	logger *slog.Logger
}

// NewProcessor creates a processor. A nil logger discards output.
func NewProcessor(logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{logger: logger}
}

type command func(w *domain.Aggregate, squads roster.Squads, ev domain.Event) (OutcomeCode, error)

func (p *Processor) commandFor(t domain.EventType) command {
	switch t {
	case domain.EventAddRuns:
		return p.addRuns
	case domain.EventAddExtra:
		return p.addExtra
	case domain.EventAddWicket:
		return p.addWicket
	case domain.EventCompleteOver:
		return p.completeOver
	case domain.EventSetNextBatsman:
		return p.setNextBatsman
	case domain.EventSetNextBowler:
		return p.setNextBowler
	case domain.EventCompleteInnings:
		return p.completeInnings
	case domain.EventCompleteMatch:
		return p.completeMatch
	case domain.EventSetManOfMatch:
		return p.setManOfMatch
	}
	return nil
}

// Apply validates ev against agg and returns the updated aggregate. On error
// the returned aggregate is agg unchanged.
func (p *Processor) Apply(agg domain.Aggregate, squads roster.Squads, ev domain.Event) (domain.Aggregate, Outcome, error) {
	if err := ev.Validate(); err != nil {
		return agg, Outcome{}, err
	}
	if err := checkStatus(&agg.State, ev.Type); err != nil {
		return agg, Outcome{}, err
	}
	cmd := p.commandFor(ev.Type)
	if cmd == nil {
		return agg, Outcome{}, domain.ErrValidation("unsupported event type " + string(ev.Type))
	}

	work := agg.Clone()
	code, err := cmd(&work, squads, ev)
	if err != nil {
		return agg, Outcome{}, err
	}

	RefreshRates(&work.State)

	if failed := Failed(Check(&work)); len(failed) > 0 {
		for _, c := range failed {
			p.logger.Error("invariant violation",
				"match_id", work.State.MatchID,
				"event", ev.Type,
				"invariant", c.Name,
				"detail", c.Detail,
			)
		}
		return agg, Outcome{}, domain.ErrInvariantViolation(failed[0].Name + ": " + failed[0].Detail)
	}

	work.State.Version++
	return work, outcomeFor(&work.State, code), nil
}

func checkStatus(s *domain.MatchState, t domain.EventType) error {
	if t == domain.EventSetManOfMatch {
		if s.Status == domain.StatusUpcoming {
			return domain.ErrIllegalTransition("match %s has not started", s.MatchID)
		}
		return nil
	}
	if s.Status != domain.StatusLive {
		return domain.ErrIllegalTransition("match %s is %s, not LIVE", s.MatchID, s.Status)
	}
	return nil
}

func outcomeFor(s *domain.MatchState, code OutcomeCode) Outcome {
	out := Outcome{Code: code}
	if s.Status == domain.StatusCompleted {
		out.MatchCompleted = true
		return out
	}
	if code == OutcomeInningsChanged {
		summary := *s.FirstInnings
		out.FirstInnings = &summary
	}

	ended, reason := innings.Ended(s)
	if ended {
		out.InningsEnded = true
		out.InningsEndReason = reason
		if code != OutcomeInningsChanged {
			out.Code = OutcomeInningsEnded
		}
		return out
	}
	out.NeedsBatsman = s.StrikerID == uuid.Nil || s.NonStrikerID == uuid.Nil
	out.NeedsBowler = s.BowlerID == uuid.Nil && !s.OverComplete()
	return out
}

// RefreshRates recomputes the derived run rates.
func RefreshRates(s *domain.MatchState) {
	s.CurrentRunRate, s.RequiredRunRate = nil, nil
	if crr, ok := stats.CurrentRunRate(s.Runs, s.LegalBalls()); ok {
		s.CurrentRunRate = &crr
	}
	if s.Status != domain.StatusLive {
		return
	}
	if target, ok := innings.Target(s); ok {
		if rrr, ok := stats.RequiredRunRate(target, s.Runs, s.BallsRemaining()); ok {
			s.RequiredRunRate = &rrr
		}
	}
}

// Pending reports what the match is waiting on without applying an event.
func Pending(s *domain.MatchState) Outcome {
	return outcomeFor(s, OutcomeApplied)
}
