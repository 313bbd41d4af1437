package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/google/uuid"
)

// setNextBatsman sends a new batter in. Without an explicit slot the striker
// end is filled first.
func (p *Processor) setNextBatsman(w *domain.Aggregate, squads roster.Squads, ev domain.Event) (OutcomeCode, error) {
	s := &w.State
	if ended, reason := innings.Ended(s); ended {
		return "", domain.ErrIllegalTransition("innings %d has ended (%s)", s.Innings, reason)
	}

	slot, err := vacantBattingSlot(s, ev.Slot)
	if err != nil {
		return "", err
	}

	if !squads.PlaysFor(s.BattingTeamID, ev.PlayerID) {
		return "", domain.ErrInvalidParticipant("player %s is not in the batting side", ev.PlayerID)
	}
	if s.AtCrease(ev.PlayerID) {
		return "", domain.ErrInvalidParticipant("player %s is already batting", ev.PlayerID)
	}
	if w.Ledger.Batter(s.Innings, ev.PlayerID) != nil {
		return "", domain.ErrInvalidParticipant("player %s has already batted this innings", ev.PlayerID)
	}

	w.Ledger.OpenBatter(s.Innings, ev.PlayerID)
	s.SetSlot(slot, ev.PlayerID)
	return OutcomeApplied, nil
}

func vacantBattingSlot(s *domain.MatchState, want domain.Slot) (domain.Slot, error) {
	if want != "" {
		if s.SlotPlayer(want) != uuid.Nil {
			return "", domain.ErrIllegalTransition("%s is already occupied", want)
		}
		return want, nil
	}
	for _, slot := range []domain.Slot{domain.SlotStriker, domain.SlotNonStriker} {
		if s.SlotPlayer(slot) == uuid.Nil {
			return slot, nil
		}
	}
	return "", domain.ErrIllegalTransition("both batters are already at the crease")
}
