package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/google/uuid"
)

// setNextBowler names the bowler of the next over. The bowler of the previous
// over is ineligible and the bowler cannot change once an over is under way.
func (p *Processor) setNextBowler(w *domain.Aggregate, squads roster.Squads, ev domain.Event) (OutcomeCode, error) {
	s := &w.State
	if ended, reason := innings.Ended(s); ended {
		return "", domain.ErrIllegalTransition("innings %d has ended (%s)", s.Innings, reason)
	}
	if s.OverStarted() && s.BowlerID != uuid.Nil {
		if ev.PlayerID == s.BowlerID {
			return "", domain.ErrInvalidParticipant("player %s is already bowling this over", ev.PlayerID)
		}
		return "", domain.ErrIllegalTransition("cannot change bowler mid-over")
	}
	if !squads.PlaysFor(s.BowlingTeamID, ev.PlayerID) {
		return "", domain.ErrInvalidParticipant("player %s is not in the fielding side", ev.PlayerID)
	}
	if ev.PlayerID == s.PreviousBowlerID {
		return "", domain.ErrInvalidParticipant("player %s bowled the previous over", ev.PlayerID)
	}

	w.Ledger.OpenBowler(s.Innings, ev.PlayerID)
	s.BowlerID = ev.PlayerID
	return OutcomeApplied, nil
}
