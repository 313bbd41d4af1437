package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creasebook/scoring/internal/infra"
)

const groupID = "creasebook-outbox-consumer"

// envelope is the message shape written by the outbox poller.
type envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, infra.MatchTopics, groupID, cfg.KafkaEnabled, logger)
	defer consumer.Close()
	if !consumer.Enabled() {
		return errors.New("kafka is disabled; set KAFKA_ENABLED=true")
	}

	logger.Info("outbox-consumer starting", "brokers", cfg.KafkaBrokers, "topics", infra.MatchTopics, "group_id", groupID)

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("outbox-consumer shutting down")
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			logger.Warn("undecodable match event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}
		logger.Info("match event",
			"event_type", env.EventType,
			"event_id", env.EventID,
			"match_id", string(msg.Key),
			"partition", msg.Partition,
			"offset", msg.Offset,
			"occurred_at", env.OccurredAt,
			"payload_bytes", len(env.Payload),
		)
	}
}
