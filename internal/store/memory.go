package store

import (
	"context"
	"sync"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/repository"
	"github.com/google/uuid"
)

// Memory is an in-process AggregateStore. Each match has its own lock, so
// updates to different matches never wait on each other.
type Memory struct {
	mu     sync.Mutex
	locks  map[uuid.UUID]*sync.Mutex
	aggs   map[uuid.UUID]domain.Aggregate
	logs   map[uuid.UUID][]domain.Delivery
	outbox []domain.OutboxDraft
	// published is the count of outbox entries already relayed; ids are 1-based positions.
	published int
}

func NewMemory() *Memory {
	return &Memory{
		locks: make(map[uuid.UUID]*sync.Mutex),
		aggs:  make(map[uuid.UUID]domain.Aggregate),
		logs:  make(map[uuid.UUID][]domain.Delivery),
	}
}

func (m *Memory) lockFor(id uuid.UUID) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func (m *Memory) Create(_ context.Context, agg domain.Aggregate, events []domain.OutboxDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := agg.State.MatchID
	if _, exists := m.aggs[id]; exists {
		return domain.ErrValidation("match " + id.String() + " already exists")
	}
	m.aggs[id] = agg.Clone()
	m.outbox = append(m.outbox, events...)
	return nil
}

func (m *Memory) Load(_ context.Context, id uuid.UUID) (domain.Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agg, ok := m.aggs[id]
	if !ok {
		return domain.Aggregate{}, domain.ErrNotFound("match", id.String())
	}
	return agg.Clone(), nil
}

func (m *Memory) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (domain.Aggregate, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	current, err := m.Load(ctx, id)
	if err != nil {
		return domain.Aggregate{}, err
	}

	m.mu.Lock()
	nextSeq := int64(len(m.logs[id])) + 1
	m.mu.Unlock()

	change, err := fn(current, nextSeq)
	if err != nil {
		return domain.Aggregate{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggs[id] = change.Aggregate.Clone()
	if change.Delivery != nil {
		m.logs[id] = append(m.logs[id], *change.Delivery)
	}
	m.outbox = append(m.outbox, change.Events...)
	return change.Aggregate, nil
}

func (m *Memory) Reset(ctx context.Context, id uuid.UUID, fn ResetFunc) (domain.Aggregate, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	current, err := m.Load(ctx, id)
	if err != nil {
		return domain.Aggregate{}, err
	}
	fresh, events, err := fn(current.State)
	if err != nil {
		return domain.Aggregate{}, err
	}

	agg := domain.Aggregate{State: fresh}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggs[id] = agg.Clone()
	delete(m.logs, id)
	m.outbox = append(m.outbox, events...)
	return agg, nil
}

func (m *Memory) Deliveries(_ context.Context, id uuid.UUID) ([]domain.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.aggs[id]; !ok {
		return nil, domain.ErrNotFound("match", id.String())
	}
	return append([]domain.Delivery{}, m.logs[id]...), nil
}

func (m *Memory) ListCompleted(_ context.Context) ([]domain.MatchState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.MatchState, 0)
	for _, agg := range m.aggs {
		if agg.State.Status == domain.StatusCompleted {
			out = append(out, agg.State.Clone())
		}
	}
	return out, nil
}

// Outbox returns the events committed so far.
func (m *Memory) Outbox() []domain.OutboxDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OutboxDraft{}, m.outbox...)
}

func (m *Memory) FetchUnpublished(_ context.Context, limit int) ([]repository.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := min(len(m.outbox), m.published+limit)
	out := make([]repository.OutboxRecord, 0, end-m.published)
	for i := m.published; i < end; i++ {
		out = append(out, repository.OutboxRecord{ID: int64(i + 1), OutboxDraft: m.outbox[i]})
	}
	return out, nil
}

// MarkPublished advances the relay cursor past the highest id given.
// Entries are relayed in order, so the ids are always a prefix of the backlog.
func (m *Memory) MarkPublished(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if int(id) > m.published && int(id) <= len(m.outbox) {
			m.published = int(id)
		}
	}
	return nil
}
