//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll truncates all tables. CASCADE takes care of the foreign keys.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"event_outbox",
		"deliveries",
		"bowling_entries",
		"batting_entries",
		"matches",
		"players",
		"teams",
	}

	for _, table := range tables {
		_, _ = env.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
	}
}
