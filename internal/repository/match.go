package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type matchRepo struct{}

// NewMatchRepository returns a pgx-backed MatchRepository.
//
// The full MatchState lives in the state JSONB column. Status, innings and
// result columns are denormalized from it for listing queries.
func NewMatchRepository() MatchRepository {
	return &matchRepo{}
}

func (r *matchRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.MatchState, error) {
	row := db.QueryRow(ctx, `SELECT state FROM matches WHERE id = $1`, id)
	return scanMatch(row)
}

func (r *matchRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.MatchState, error) {
	row := tx.QueryRow(ctx, `SELECT state FROM matches WHERE id = $1 FOR UPDATE`, id)
	return scanMatch(row)
}

func (r *matchRepo) Create(ctx context.Context, db DBTX, state *domain.MatchState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal match state: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO matches (id, home_team_id, away_team_id, venue, starts_at, status, innings, version, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		state.MatchID,
		state.HomeTeamID,
		state.AwayTeamID,
		state.Venue,
		state.StartsAt,
		string(state.Status),
		state.Innings,
		state.Version,
		raw,
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *matchRepo) Update(ctx context.Context, db DBTX, state *domain.MatchState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal match state: %w", err)
	}
	var resultKind *string
	var winnerID *uuid.UUID
	if state.Result != nil {
		k := string(state.Result.Kind)
		resultKind = &k
		if state.Result.Decisive() {
			w := state.Result.WinnerID
			winnerID = &w
		}
	}
	tag, err := db.Exec(ctx, `
		UPDATE matches
		SET status = $2, innings = $3, result_kind = $4, winner_id = $5, version = $6, state = $7, updated_at = now()
		WHERE id = $1`,
		state.MatchID,
		string(state.Status),
		state.Innings,
		resultKind,
		winnerID,
		state.Version,
		raw,
	)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("match", state.MatchID.String())
	}
	return nil
}

func (r *matchRepo) ListCompleted(ctx context.Context, db DBTX) ([]domain.MatchState, error) {
	rows, err := db.Query(ctx, `
		SELECT state FROM matches
		WHERE status = $1
		ORDER BY starts_at ASC, id ASC`, string(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("list completed matches: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchState
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanMatch(row pgx.Row) (*domain.MatchState, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}
	var s domain.MatchState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode match state: %w", err)
	}
	if s.ThisOver == nil {
		s.ThisOver = []domain.Ball{}
	}
	return &s, nil
}
