package store

import (
	"context"
	"fmt"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the pgx-backed AggregateStore. Update runs inside one
// transaction holding the match row lock; the state, ledger rows, delivery
// and outbox rows commit together.
type Postgres struct {
	pool       *pgxpool.Pool
	matches    repository.MatchRepository
	perf       repository.PerformanceRepository
	deliveries repository.DeliveryRepository
	outbox     repository.OutboxRepository
}

func NewPostgres(
	pool *pgxpool.Pool,
	matches repository.MatchRepository,
	perf repository.PerformanceRepository,
	deliveries repository.DeliveryRepository,
	outbox repository.OutboxRepository,
) *Postgres {
	return &Postgres{
		pool:       pool,
		matches:    matches,
		perf:       perf,
		deliveries: deliveries,
		outbox:     outbox,
	}
}

var txOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func (p *Postgres) Create(ctx context.Context, agg domain.Aggregate, events []domain.OutboxDraft) error {
	return pgx.BeginTxFunc(ctx, p.pool, txOptions, func(tx pgx.Tx) error {
		if err := p.matches.Create(ctx, tx, &agg.State); err != nil {
			return err
		}
		return p.insertEvents(ctx, tx, events)
	})
}

func (p *Postgres) Load(ctx context.Context, id uuid.UUID) (domain.Aggregate, error) {
	state, err := p.matches.FindByID(ctx, p.pool, id)
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("load match: %w", err)
	}
	if state == nil {
		return domain.Aggregate{}, domain.ErrNotFound("match", id.String())
	}
	ledger, err := p.perf.LoadLedger(ctx, p.pool, id)
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("load ledger: %w", err)
	}
	return domain.Aggregate{State: *state, Ledger: ledger}, nil
}

func (p *Postgres) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (domain.Aggregate, error) {
	var result domain.Aggregate
	err := pgx.BeginTxFunc(ctx, p.pool, txOptions, func(tx pgx.Tx) error {
		current, err := p.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		nextSeq, err := p.deliveries.NextSeq(ctx, tx, id)
		if err != nil {
			return err
		}

		change, err := fn(current, nextSeq)
		if err != nil {
			return err
		}

		if err := p.matches.Update(ctx, tx, &change.Aggregate.State); err != nil {
			return err
		}
		if err := p.perf.SaveLedger(ctx, tx, id, change.Aggregate.Ledger); err != nil {
			return err
		}
		if change.Delivery != nil {
			if err := p.deliveries.Append(ctx, tx, *change.Delivery); err != nil {
				return err
			}
		}
		if err := p.insertEvents(ctx, tx, change.Events); err != nil {
			return err
		}
		result = change.Aggregate
		return nil
	})
	if err != nil {
		return domain.Aggregate{}, err
	}
	return result, nil
}

func (p *Postgres) Reset(ctx context.Context, id uuid.UUID, fn ResetFunc) (domain.Aggregate, error) {
	var result domain.Aggregate
	err := pgx.BeginTxFunc(ctx, p.pool, txOptions, func(tx pgx.Tx) error {
		current, err := p.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		fresh, events, err := fn(current.State)
		if err != nil {
			return err
		}
		if err := p.deliveries.DeleteByMatch(ctx, tx, id); err != nil {
			return err
		}
		if err := p.perf.DeleteByMatch(ctx, tx, id); err != nil {
			return err
		}
		if err := p.matches.Update(ctx, tx, &fresh); err != nil {
			return err
		}
		if err := p.insertEvents(ctx, tx, events); err != nil {
			return err
		}
		result = domain.Aggregate{State: fresh}
		return nil
	})
	if err != nil {
		return domain.Aggregate{}, err
	}
	return result, nil
}

func (p *Postgres) Deliveries(ctx context.Context, id uuid.UUID) ([]domain.Delivery, error) {
	return p.deliveries.ListByMatch(ctx, p.pool, id)
}

func (p *Postgres) ListCompleted(ctx context.Context) ([]domain.MatchState, error) {
	return p.matches.ListCompleted(ctx, p.pool)
}

func (p *Postgres) lock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (domain.Aggregate, error) {
	state, err := p.matches.LockForUpdate(ctx, tx, id)
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("lock match: %w", err)
	}
	if state == nil {
		return domain.Aggregate{}, domain.ErrNotFound("match", id.String())
	}
	ledger, err := p.perf.LoadLedger(ctx, tx, id)
	if err != nil {
		return domain.Aggregate{}, fmt.Errorf("load ledger: %w", err)
	}
	return domain.Aggregate{State: *state, Ledger: ledger}, nil
}

func (p *Postgres) insertEvents(ctx context.Context, tx pgx.Tx, events []domain.OutboxDraft) error {
	for _, e := range events {
		if err := p.outbox.Insert(ctx, tx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) FetchUnpublished(ctx context.Context, limit int) ([]repository.OutboxRecord, error) {
	return p.outbox.FetchUnpublished(ctx, p.pool, limit)
}

func (p *Postgres) MarkPublished(ctx context.Context, ids []int64) error {
	return p.outbox.MarkPublished(ctx, p.pool, ids)
}
