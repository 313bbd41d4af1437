package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/google/uuid"
)

// addWicket dismisses the batter in the named slot on a legal delivery and
// leaves that slot vacant for SetNextBatsman.
func (p *Processor) addWicket(w *domain.Aggregate, squads roster.Squads, ev domain.Event) (OutcomeCode, error) {
	s := &w.State
	if err := requireDelivery(s); err != nil {
		return "", err
	}
	if ev.FielderID != uuid.Nil && !squads.PlaysFor(s.BowlingTeamID, ev.FielderID) {
		return "", domain.ErrInvalidParticipant("fielder %s is not in the fielding side", ev.FielderID)
	}

	out, err := batterIn(w, s.SlotPlayer(ev.Dismissed))
	if err != nil {
		return "", err
	}
	out.NotOut = false
	out.Dismissal = &domain.Dismissal{
		Kind:      ev.Wicket,
		BowlerID:  s.BowlerID,
		FielderID: ev.FielderID,
	}

	bat, err := striker(w)
	if err != nil {
		return "", err
	}
	bat.Balls++

	bowl := currentBowler(w)
	bowl.Balls++
	bowl.Wickets++

	s.Wickets++
	s.Balls++
	s.ThisOver = append(s.ThisOver, domain.Ball{Wicket: true})
	s.SetSlot(ev.Dismissed, uuid.Nil)
	return OutcomeWicket, nil
}
