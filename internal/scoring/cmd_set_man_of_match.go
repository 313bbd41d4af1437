package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/roster"
)

func (p *Processor) setManOfMatch(w *domain.Aggregate, squads roster.Squads, ev domain.Event) (OutcomeCode, error) {
	s := &w.State
	if !squads.PlaysFor(s.HomeTeamID, ev.PlayerID) && !squads.PlaysFor(s.AwayTeamID, ev.PlayerID) {
		return "", domain.ErrInvalidParticipant("player %s is not playing this match", ev.PlayerID)
	}
	s.ManOfMatchID = ev.PlayerID
	if s.Status == domain.StatusCompleted {
		return OutcomeMatchCompleted, nil
	}
	return OutcomeApplied, nil
}
