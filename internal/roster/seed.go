package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
)

// Seed is a roster file: teams with their squads in squad order.
type Seed struct {
	Teams []SeedTeam `json:"teams"`
}

type SeedTeam struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Players []SeedPlayer `json:"players"`
}

type SeedPlayer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Writer accepts seeded squads.
type Writer interface {
	AddSquad(ctx context.Context, team domain.Team, players []domain.Player) error
}

// ReadSeed decodes and checks a roster seed.
func ReadSeed(r io.Reader) (*Seed, error) {
	var s Seed
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode roster seed: %w", err)
	}
	seen := make(map[uuid.UUID]bool)
	for _, t := range s.Teams {
		if t.ID == uuid.Nil || t.Name == "" {
			return nil, fmt.Errorf("roster seed: team needs an id and a name")
		}
		for _, p := range t.Players {
			if p.ID == uuid.Nil {
				return nil, fmt.Errorf("roster seed: player %q of %s has no id", p.Name, t.Name)
			}
			if seen[p.ID] {
				return nil, fmt.Errorf("roster seed: player %s listed twice", p.ID)
			}
			seen[p.ID] = true
		}
	}
	return &s, nil
}

// LoadSeedFile reads a roster seed from disk.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster seed: %w", err)
	}
	defer f.Close()
	return ReadSeed(f)
}

// Apply writes every team and squad in the seed.
func (s *Seed) Apply(ctx context.Context, w Writer) error {
	for _, t := range s.Teams {
		team := domain.Team{ID: t.ID, Name: t.Name}
		players := make([]domain.Player, len(t.Players))
		for i, p := range t.Players {
			players[i] = domain.Player{ID: p.ID, TeamID: t.ID, Name: p.Name}
		}
		if err := w.AddSquad(ctx, team, players); err != nil {
			return fmt.Errorf("seed team %s: %w", t.Name, err)
		}
	}
	return nil
}
