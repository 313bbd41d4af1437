// Package roster is the read-only team and player directory consulted by the
// scoring core.
package roster

import (
	"context"
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
)

// Directory is the external team and player source.
type Directory interface {
	// Team returns the team, or a NotFound AppError.
	Team(ctx context.Context, id uuid.UUID) (*domain.Team, error)

	// PlayersOf returns a team's squad in squad order.
	PlayersOf(ctx context.Context, teamID uuid.UUID) ([]domain.Player, error)
}

// Squads is a loaded, immutable snapshot of the squads taking part in a match.
type Squads struct {
	teams   map[uuid.UUID]domain.Team
	squads  map[uuid.UUID][]domain.Player
	players map[uuid.UUID]domain.Player
}

// NewSquads builds a snapshot from already-loaded teams and players.
func NewSquads(teams []domain.Team, players []domain.Player) Squads {
	s := Squads{
		teams:   make(map[uuid.UUID]domain.Team, len(teams)),
		squads:  make(map[uuid.UUID][]domain.Player, len(teams)),
		players: make(map[uuid.UUID]domain.Player, len(players)),
	}
	for _, t := range teams {
		s.teams[t.ID] = t
	}
	for _, p := range players {
		s.squads[p.TeamID] = append(s.squads[p.TeamID], p)
		s.players[p.ID] = p
	}
	return s
}

// Load fetches the given teams and their squads from the directory.
func Load(ctx context.Context, dir Directory, teamIDs ...uuid.UUID) (Squads, error) {
	var teams []domain.Team
	var players []domain.Player
	for _, id := range teamIDs {
		t, err := dir.Team(ctx, id)
		if err != nil {
			return Squads{}, fmt.Errorf("load team %s: %w", id, err)
		}
		ps, err := dir.PlayersOf(ctx, id)
		if err != nil {
			return Squads{}, fmt.Errorf("load squad %s: %w", id, err)
		}
		teams = append(teams, *t)
		players = append(players, ps...)
	}
	return NewSquads(teams, players), nil
}

// PlaysFor reports whether the player is in the team's squad.
func (s Squads) PlaysFor(teamID, playerID uuid.UUID) bool {
	p, ok := s.players[playerID]
	return ok && p.TeamID == teamID
}

// Squad returns the team's players in squad order.
func (s Squads) Squad(teamID uuid.UUID) []domain.Player {
	return s.squads[teamID]
}

// Player looks a player up by id.
func (s Squads) Player(id uuid.UUID) (domain.Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Team looks a team up by id.
func (s Squads) Team(id uuid.UUID) (domain.Team, bool) {
	t, ok := s.teams[id]
	return t, ok
}

// PlayerName returns the player's name, or "" if unknown.
func (s Squads) PlayerName(id uuid.UUID) string {
	return s.players[id].Name
}
