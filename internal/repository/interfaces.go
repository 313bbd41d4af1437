package repository

import (
	"context"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// MatchRepository provides access to matches.
type MatchRepository interface {
	// FindByID returns a match by ID, or nil if it does not exist.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.MatchState, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the match.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.MatchState, error)

	// Create inserts a newly scheduled match.
	Create(ctx context.Context, db DBTX, state *domain.MatchState) error

	// Update overwrites the match row with the given state.
	Update(ctx context.Context, db DBTX, state *domain.MatchState) error

	// ListCompleted returns every completed match, oldest first.
	ListCompleted(ctx context.Context, db DBTX) ([]domain.MatchState, error)
}

// PerformanceRepository provides access to batting_entries and bowling_entries.
type PerformanceRepository interface {
	// LoadLedger returns every batting and bowling entry for a match.
	LoadLedger(ctx context.Context, db DBTX, matchID uuid.UUID) (domain.Ledger, error)

	// SaveLedger upserts every entry, keyed by (match, innings, player).
	SaveLedger(ctx context.Context, db DBTX, matchID uuid.UUID, ledger domain.Ledger) error

	// DeleteByMatch removes every entry for a match.
	DeleteByMatch(ctx context.Context, db DBTX, matchID uuid.UUID) error
}

// DeliveryRepository provides access to the append-only deliveries log.
type DeliveryRepository interface {
	// Append writes the next delivery. Seq must be one past the last stored seq.
	Append(ctx context.Context, db DBTX, d domain.Delivery) error

	// NextSeq returns the seq the next appended delivery must carry.
	NextSeq(ctx context.Context, db DBTX, matchID uuid.UUID) (int64, error)

	// ListByMatch returns a match's deliveries in seq order.
	ListByMatch(ctx context.Context, db DBTX, matchID uuid.UUID) ([]domain.Delivery, error)

	// DeleteByMatch purges a match's event log.
	DeleteByMatch(ctx context.Context, db DBTX, matchID uuid.UUID) error
}

// RosterRepository provides read access to teams and players.
type RosterRepository interface {
	// FindTeam returns a team by ID, or nil if it does not exist.
	FindTeam(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Team, error)

	// ListPlayersByTeam returns a team's squad in squad order.
	ListPlayersByTeam(ctx context.Context, db DBTX, teamID uuid.UUID) ([]domain.Player, error)

	// UpsertTeam and UpsertPlayer seed the directory.
	UpsertTeam(ctx context.Context, db DBTX, team domain.Team) error
	UpsertPlayer(ctx context.Context, db DBTX, player domain.Player, squadOrder int) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the match update).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events for the outbox poller.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]OutboxRecord, error)

	// MarkPublished stamps events as published.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}

// OutboxRecord is an outbox row with its sequence id.
type OutboxRecord struct {
	ID int64
	domain.OutboxDraft
}
