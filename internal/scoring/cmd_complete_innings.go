package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
)

// completeInnings closes an innings that can no longer continue. The first
// innings hands over to the chase; the second settles the match.
func (p *Processor) completeInnings(w *domain.Aggregate, _ roster.Squads, _ domain.Event) (OutcomeCode, error) {
	s := &w.State
	if ended, _ := innings.Ended(s); !ended {
		return "", domain.ErrIllegalTransition("innings %d is still in progress", s.Innings)
	}
	return closeInnings(s), nil
}

func closeInnings(s *domain.MatchState) OutcomeCode {
	if s.Innings == 1 {
		innings.Transition(s)
		return OutcomeInningsChanged
	}
	innings.Complete(s, innings.Decide(s))
	return OutcomeMatchCompleted
}
