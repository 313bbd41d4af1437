// Package store persists match aggregates. Every Update is one atomic
// read-modify-write serialized per match id.
package store

import (
	"context"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/repository"
	"github.com/google/uuid"
)

// Change is what an update callback asks the store to commit.
type Change struct {
	Aggregate domain.Aggregate
	// Delivery is appended to the match's event log when set.
	Delivery *domain.Delivery
	Events   []domain.OutboxDraft
}

// UpdateFunc receives the current aggregate and the seq the next delivery
// must carry. Returning an error aborts the update and leaves the match untouched.
type UpdateFunc func(current domain.Aggregate, nextSeq int64) (Change, error)

// ResetFunc builds the fresh state written by Reset.
type ResetFunc func(current domain.MatchState) (domain.MatchState, []domain.OutboxDraft, error)

// AggregateStore is the persistence boundary of the scoring core.
type AggregateStore interface {
	// Create stores a newly scheduled match.
	Create(ctx context.Context, agg domain.Aggregate, events []domain.OutboxDraft) error

	// Load returns the current aggregate, or a NotFound AppError.
	Load(ctx context.Context, id uuid.UUID) (domain.Aggregate, error)

	// Update loads, applies fn, and saves the result atomically.
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (domain.Aggregate, error)

	// Reset replaces the state with fn's result and purges the ledger and event log.
	Reset(ctx context.Context, id uuid.UUID, fn ResetFunc) (domain.Aggregate, error)

	// Deliveries returns the match's event log in seq order.
	Deliveries(ctx context.Context, id uuid.UUID) ([]domain.Delivery, error)

	// ListCompleted returns every completed match.
	ListCompleted(ctx context.Context) ([]domain.MatchState, error)
}

// OutboxRelay is the read side of the event outbox drained by the poller.
type OutboxRelay interface {
	FetchUnpublished(ctx context.Context, limit int) ([]repository.OutboxRecord, error)
	MarkPublished(ctx context.Context, ids []int64) error
}
