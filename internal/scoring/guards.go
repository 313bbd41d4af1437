package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/google/uuid"
)

// requireDelivery checks that a ball can be bowled: all three participants
// are in place, the innings is still open and the over has balls left.
func requireDelivery(s *domain.MatchState) error {
	if err := requireParticipants(s); err != nil {
		return err
	}
	if ended, reason := innings.Ended(s); ended {
		return domain.ErrIllegalTransition("innings %d has ended (%s)", s.Innings, reason)
	}
	if s.OverComplete() {
		return domain.ErrIllegalTransition("over %d has been bowled, complete it first", s.Overs+1)
	}
	return nil
}

func requireParticipants(s *domain.MatchState) error {
	for _, slot := range []domain.Slot{domain.SlotStriker, domain.SlotNonStriker, domain.SlotBowler} {
		if s.SlotPlayer(slot) == uuid.Nil {
			return domain.ErrMissingParticipant(slot)
		}
	}
	return nil
}

func striker(w *domain.Aggregate) (*domain.BattingEntry, error) {
	return batterIn(w, w.State.StrikerID)
}

func batterIn(w *domain.Aggregate, id uuid.UUID) (*domain.BattingEntry, error) {
	e := w.Ledger.Batter(w.State.Innings, id)
	if e == nil {
		return nil, domain.ErrInvariantViolation("batter at the crease has no ledger entry")
	}
	return e, nil
}

func currentBowler(w *domain.Aggregate) *domain.BowlingEntry {
	e, _ := w.Ledger.OpenBowler(w.State.Innings, w.State.BowlerID)
	return e
}
