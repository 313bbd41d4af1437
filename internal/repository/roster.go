package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type rosterRepo struct{}

// NewRosterRepository returns a pgx-backed RosterRepository.
func NewRosterRepository() RosterRepository {
	return &rosterRepo{}
}

func (r *rosterRepo) FindTeam(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Team, error) {
	var t domain.Team
	err := db.QueryRow(ctx, `SELECT id, name FROM teams WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	return &t, nil
}

func (r *rosterRepo) ListPlayersByTeam(ctx context.Context, db DBTX, teamID uuid.UUID) ([]domain.Player, error) {
	rows, err := db.Query(ctx, `
		SELECT id, team_id, name FROM players
		WHERE team_id = $1
		ORDER BY squad_order ASC, name ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := make([]domain.Player, 0)
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *rosterRepo) UpsertTeam(ctx context.Context, db DBTX, team domain.Team) error {
	_, err := db.Exec(ctx, `
		INSERT INTO teams (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, team.ID, team.Name)
	if err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

func (r *rosterRepo) UpsertPlayer(ctx context.Context, db DBTX, player domain.Player, squadOrder int) error {
	_, err := db.Exec(ctx, `
		INSERT INTO players (id, team_id, name, squad_order) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET team_id = EXCLUDED.team_id, name = EXCLUDED.name, squad_order = EXCLUDED.squad_order`,
		player.ID, player.TeamID, player.Name, squadOrder)
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}
