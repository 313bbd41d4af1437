package roster

import (
	"context"
	"sync"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
)

// MemoryDirectory is an in-process Directory for tests and the memory store driver.
type MemoryDirectory struct {
	mu      sync.RWMutex
	teams   map[uuid.UUID]domain.Team
	players map[uuid.UUID][]domain.Player
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		teams:   make(map[uuid.UUID]domain.Team),
		players: make(map[uuid.UUID][]domain.Player),
	}
}

// AddTeam registers a team and replaces its squad. Player TeamIDs are set to the team.
func (d *MemoryDirectory) AddTeam(team domain.Team, players ...domain.Player) {
	d.mu.Lock()
	defer d.mu.Unlock()
	squad := make([]domain.Player, len(players))
	for i, p := range players {
		p.TeamID = team.ID
		squad[i] = p
	}
	d.teams[team.ID] = team
	d.players[team.ID] = squad
}

func (d *MemoryDirectory) Team(_ context.Context, id uuid.UUID) (*domain.Team, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.teams[id]
	if !ok {
		return nil, domain.ErrNotFound("team", id.String())
	}
	return &t, nil
}

func (d *MemoryDirectory) PlayersOf(_ context.Context, teamID uuid.UUID) ([]domain.Player, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.teams[teamID]; !ok {
		return nil, domain.ErrNotFound("team", teamID.String())
	}
	return append([]domain.Player(nil), d.players[teamID]...), nil
}

// AddSquad implements Writer.
func (d *MemoryDirectory) AddSquad(_ context.Context, team domain.Team, players []domain.Player) error {
	d.AddTeam(team, players...)
	return nil
}
