package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
)

// completeMatch ends the match on the scorer's say-so. A match stopped in the
// first innings is abandoned; a chase stopped short is a no result.
func (p *Processor) completeMatch(w *domain.Aggregate, _ roster.Squads, _ domain.Event) (OutcomeCode, error) {
	s := &w.State
	if s.Innings == 1 {
		innings.Complete(s, domain.Result{Kind: domain.ResultAbandoned})
		return OutcomeMatchCompleted, nil
	}
	if ended, _ := innings.Ended(s); ended {
		return closeInnings(s), nil
	}
	innings.Complete(s, domain.Result{Kind: domain.ResultNoResult})
	return OutcomeMatchCompleted, nil
}
