package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
)

// addRuns scores a legal delivery off the bat.
// Pattern: Validate → Credit striker and bowler → Advance ball → Rotate on odd runs
func (p *Processor) addRuns(w *domain.Aggregate, _ roster.Squads, ev domain.Event) (OutcomeCode, error) {
	s := &w.State
	if err := requireDelivery(s); err != nil {
		return "", err
	}

	bat, err := striker(w)
	if err != nil {
		return "", err
	}
	bat.Runs += ev.Runs
	bat.Balls++
	switch ev.Runs {
	case 4:
		bat.Fours++
	case 6:
		bat.Sixes++
	}

	bowl := currentBowler(w)
	bowl.Balls++
	bowl.RunsConceded += ev.Runs

	s.Runs += ev.Runs
	s.Balls++
	s.ThisOver = append(s.ThisOver, domain.Ball{Runs: ev.Runs})

	if ev.Runs%2 == 1 {
		s.RotateStrike()
	}
	return OutcomeApplied, nil
}
