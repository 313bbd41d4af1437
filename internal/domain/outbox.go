package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEventType enumerates the match events published through the outbox.
type OutboxEventType string

const (
	OutboxMatchScheduled   OutboxEventType = "creasebook.match.scheduled"
	OutboxMatchLive        OutboxEventType = "creasebook.match.live"
	OutboxDeliveryApplied  OutboxEventType = "creasebook.match.delivery.applied"
	OutboxInningsCompleted OutboxEventType = "creasebook.match.innings.completed"
	OutboxMatchCompleted   OutboxEventType = "creasebook.match.completed"
	OutboxMatchReset       OutboxEventType = "creasebook.match.reset"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const AggregateMatch AggregateType = "match"

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     OutboxEventType `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
