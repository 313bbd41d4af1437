package roster

import (
	"context"
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/repository"
	"github.com/google/uuid"
)

// PostgresDirectory reads teams and players through the roster repository.
type PostgresDirectory struct {
	db   repository.DBTX
	repo repository.RosterRepository
}

func NewPostgresDirectory(db repository.DBTX, repo repository.RosterRepository) *PostgresDirectory {
	return &PostgresDirectory{db: db, repo: repo}
}

func (d *PostgresDirectory) Team(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	t, err := d.repo.FindTeam(ctx, d.db, id)
	if err != nil {
		return nil, fmt.Errorf("find team: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("team", id.String())
	}
	return t, nil
}

func (d *PostgresDirectory) PlayersOf(ctx context.Context, teamID uuid.UUID) ([]domain.Player, error) {
	players, err := d.repo.ListPlayersByTeam(ctx, d.db, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// AddSquad upserts the team and its players in squad order.
func (d *PostgresDirectory) AddSquad(ctx context.Context, team domain.Team, players []domain.Player) error {
	if err := d.repo.UpsertTeam(ctx, d.db, team); err != nil {
		return err
	}
	for i, p := range players {
		if err := d.repo.UpsertPlayer(ctx, d.db, p, i+1); err != nil {
			return err
		}
	}
	return nil
}
