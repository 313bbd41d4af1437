package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
)

// addExtra records a wide or no-ball. One run is added to the total and
// charged to the bowler; the ball does not count toward the over and is not
// faced by the striker.
func (p *Processor) addExtra(w *domain.Aggregate, _ roster.Squads, ev domain.Event) (OutcomeCode, error) {
	s := &w.State
	if err := requireDelivery(s); err != nil {
		return "", err
	}

	bowl := currentBowler(w)
	bowl.RunsConceded++
	switch ev.Extra {
	case domain.ExtraWide:
		bowl.Wides++
	case domain.ExtraNoBall:
		bowl.NoBalls++
	}

	s.Runs++
	s.Extras++
	s.ThisOver = append(s.ThisOver, domain.Ball{Runs: 1, Extra: ev.Extra})
	return OutcomeApplied, nil
}
