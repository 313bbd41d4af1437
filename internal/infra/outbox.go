package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/creasebook/scoring/internal/metrics"
	"github.com/creasebook/scoring/internal/store"
)

// Publisher sends one message to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// OutboxPoller drains committed outbox events and publishes them. The topic
// is the event type, keyed by match id so one match stays on one partition.
type OutboxPoller struct {
	relay     store.OutboxRelay
	producer  Publisher
	metrics   *metrics.Recorder
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller.
func NewOutboxPoller(relay store.OutboxRelay, producer Publisher, rec *metrics.Recorder, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		relay:     relay,
		producer:  producer,
		metrics:   rec,
		logger:    logger,
		interval:  500 * time.Millisecond,
		batchSize: 100,
	}
}

// Run polls until ctx is cancelled.
func (p *OutboxPoller) Run(ctx context.Context) error {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox poller stopped")
			return nil
		case <-ticker.C:
			n, err := p.PollOnce(ctx)
			p.metrics.RecordOutbox(n, err)
			if err != nil {
				p.logger.Error("outbox poll error", "error", err)
			}
		}
	}
}

// PollOnce publishes one batch in order and returns how many were published.
// It stops at the first publish failure so later events never overtake it.
func (p *OutboxPoller) PollOnce(ctx context.Context) (int, error) {
	records, err := p.relay.FetchUnpublished(ctx, p.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch outbox: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	published := make([]int64, 0, len(records))
	var pubErr error
	for _, e := range records {
		msg, err := json.Marshal(map[string]interface{}{
			"event_id":       e.EventID,
			"aggregate_type": e.AggregateType,
			"aggregate_id":   e.AggregateID,
			"event_type":     e.EventType,
			"payload":        e.Payload,
			"occurred_at":    e.OccurredAt,
		})
		if err != nil {
			pubErr = fmt.Errorf("marshal outbox event %s: %w", e.EventID, err)
			break
		}
		if err := p.producer.Publish(ctx, string(e.EventType), []byte(e.PartitionKey), msg); err != nil {
			pubErr = fmt.Errorf("publish outbox event %s: %w", e.EventID, err)
			break
		}
		published = append(published, e.ID)
	}

	if err := p.relay.MarkPublished(ctx, published); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}
	p.logger.Debug("outbox poll complete", "published", len(published))
	return len(published), pubErr
}
