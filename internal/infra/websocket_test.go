package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- WSHub Tests ---

func TestWSHub_PublishMatch(t *testing.T) {
	hub := NewWSHub(slog.New(slog.DiscardHandler))
	match, other := uuid.New(), uuid.New()

	conn, leave := hub.Subscribe(match, 4)
	otherConn, _ := hub.Subscribe(other, 4)
	assert.Equal(t, 2, hub.ConnectionCount())
	assert.Equal(t, 2, hub.RoomCount())

	hub.PublishMatch(match, "snapshot", map[string]int{"runs": 4})

	require.Len(t, conn.Send, 1)
	var msg WSMessage
	require.NoError(t, json.Unmarshal(<-conn.Send, &msg))
	assert.Equal(t, "snapshot", msg.Event)
	assert.Empty(t, otherConn.Send)

	leave()
	assert.Equal(t, 1, hub.ConnectionCount())
}

func TestWSHub_FullBufferDrops(t *testing.T) {
	hub := NewWSHub(slog.New(slog.DiscardHandler))
	match := uuid.New()
	conn, _ := hub.Subscribe(match, 1)

	hub.PublishMatch(match, "a", nil)
	hub.PublishMatch(match, "b", nil)
	assert.Len(t, conn.Send, 1)
}

func TestWSHub_Shutdown(t *testing.T) {
	hub := NewWSHub(slog.New(slog.DiscardHandler))
	conn, _ := hub.Subscribe(uuid.New(), 1)

	hub.Shutdown(context.Background())
	_, open := <-conn.Send
	assert.False(t, open)
	assert.Zero(t, hub.RoomCount())
}
