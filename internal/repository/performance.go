package repository

import (
	"context"
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type performanceRepo struct{}

// NewPerformanceRepository returns a pgx-backed PerformanceRepository.
func NewPerformanceRepository() PerformanceRepository {
	return &performanceRepo{}
}

func (r *performanceRepo) LoadLedger(ctx context.Context, db DBTX, matchID uuid.UUID) (domain.Ledger, error) {
	ledger := domain.Ledger{Batting: []domain.BattingEntry{}, Bowling: []domain.BowlingEntry{}}

	rows, err := db.Query(ctx, `
		SELECT player_id, innings, batting_order, runs, balls, fours, sixes, not_out,
		       dismissal_kind, dismissal_bowler_id, dismissal_fielder_id
		FROM batting_entries
		WHERE match_id = $1
		ORDER BY innings, batting_order`, matchID)
	if err != nil {
		return ledger, fmt.Errorf("query batting entries: %w", err)
	}
	for rows.Next() {
		var e domain.BattingEntry
		var kind *string
		var bowlerID, fielderID *uuid.UUID
		if err := rows.Scan(&e.PlayerID, &e.Innings, &e.Order, &e.Runs, &e.Balls, &e.Fours, &e.Sixes,
			&e.NotOut, &kind, &bowlerID, &fielderID); err != nil {
			rows.Close()
			return ledger, fmt.Errorf("scan batting entry: %w", err)
		}
		if kind != nil {
			e.Dismissal = &domain.Dismissal{Kind: domain.WicketKind(*kind)}
			if bowlerID != nil {
				e.Dismissal.BowlerID = *bowlerID
			}
			if fielderID != nil {
				e.Dismissal.FielderID = *fielderID
			}
		}
		ledger.Batting = append(ledger.Batting, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ledger, fmt.Errorf("iterate batting entries: %w", err)
	}

	rows, err = db.Query(ctx, `
		SELECT player_id, innings, bowling_order, balls, maidens, runs_conceded, wickets, wides, no_balls
		FROM bowling_entries
		WHERE match_id = $1
		ORDER BY innings, bowling_order`, matchID)
	if err != nil {
		return ledger, fmt.Errorf("query bowling entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.BowlingEntry
		if err := rows.Scan(&e.PlayerID, &e.Innings, &e.Order, &e.Balls, &e.Maidens, &e.RunsConceded,
			&e.Wickets, &e.Wides, &e.NoBalls); err != nil {
			return ledger, fmt.Errorf("scan bowling entry: %w", err)
		}
		ledger.Bowling = append(ledger.Bowling, e)
	}
	return ledger, rows.Err()
}

// SaveLedger batches one upsert per entry. Entries are never deleted here; a
// ledger only grows until the match is reset.
func (r *performanceRepo) SaveLedger(ctx context.Context, db DBTX, matchID uuid.UUID, ledger domain.Ledger) error {
	if len(ledger.Batting) == 0 && len(ledger.Bowling) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range ledger.Batting {
		var kind *string
		var bowlerID, fielderID *uuid.UUID
		if d := e.Dismissal; d != nil {
			k := string(d.Kind)
			kind = &k
			bowlerID = nilIfZero(d.BowlerID)
			fielderID = nilIfZero(d.FielderID)
		}
		batch.Queue(`
			INSERT INTO batting_entries
			  (match_id, innings, player_id, batting_order, runs, balls, fours, sixes, not_out,
			   dismissal_kind, dismissal_bowler_id, dismissal_fielder_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (match_id, innings, player_id) DO UPDATE SET
			  runs = EXCLUDED.runs, balls = EXCLUDED.balls, fours = EXCLUDED.fours, sixes = EXCLUDED.sixes,
			  not_out = EXCLUDED.not_out, dismissal_kind = EXCLUDED.dismissal_kind,
			  dismissal_bowler_id = EXCLUDED.dismissal_bowler_id,
			  dismissal_fielder_id = EXCLUDED.dismissal_fielder_id`,
			matchID, e.Innings, e.PlayerID, e.Order, e.Runs, e.Balls, e.Fours, e.Sixes, e.NotOut,
			kind, bowlerID, fielderID)
	}
	for _, e := range ledger.Bowling {
		batch.Queue(`
			INSERT INTO bowling_entries
			  (match_id, innings, player_id, bowling_order, balls, maidens, runs_conceded, wickets, wides, no_balls)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (match_id, innings, player_id) DO UPDATE SET
			  balls = EXCLUDED.balls, maidens = EXCLUDED.maidens, runs_conceded = EXCLUDED.runs_conceded,
			  wickets = EXCLUDED.wickets, wides = EXCLUDED.wides, no_balls = EXCLUDED.no_balls`,
			matchID, e.Innings, e.PlayerID, e.Order, e.Balls, e.Maidens, e.RunsConceded, e.Wickets,
			e.Wides, e.NoBalls)
	}

	return execBatch(ctx, db, batch)
}

func (r *performanceRepo) DeleteByMatch(ctx context.Context, db DBTX, matchID uuid.UUID) error {
	if _, err := db.Exec(ctx, `DELETE FROM batting_entries WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete batting entries: %w", err)
	}
	if _, err := db.Exec(ctx, `DELETE FROM bowling_entries WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("delete bowling entries: %w", err)
	}
	return nil
}

// batchSender is implemented by pgx.Tx and *pgxpool.Pool.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// execBatch pipelines the batch when db supports it and falls back to
// sequential Exec otherwise.
func execBatch(ctx context.Context, db DBTX, b *pgx.Batch) error {
	s, ok := db.(batchSender)
	if !ok {
		for i, q := range b.QueuedQueries {
			if _, err := db.Exec(ctx, q.SQL, q.Arguments...); err != nil {
				return fmt.Errorf("upsert ledger entry %d: %w", i, err)
			}
		}
		return nil
	}

	br := s.SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert ledger entry %d: %w", i, err)
		}
	}
	return nil
}

func nilIfZero(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
