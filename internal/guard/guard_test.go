package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// --- Idempotency Guard Tests ---

func TestIdempotencyGuard(t *testing.T) {
	ig := NewIdempotencyGuard(0)

	assert.True(t, ig.Check("k1").Allowed)
	dup := ig.Check("k1")
	assert.False(t, dup.Allowed)
	assert.Equal(t, "idempotency", dup.Guard)
	assert.True(t, ig.Check("k2").Allowed)
}

func TestIdempotencyGuard_EmptyKey(t *testing.T) {
	ig := NewIdempotencyGuard(0)
	assert.True(t, ig.Check("").Allowed)
	assert.True(t, ig.Check("").Allowed)
}

func TestIdempotencyGuard_Remove(t *testing.T) {
	ig := NewIdempotencyGuard(0)
	ig.Check("k1")
	ig.Remove("k1")
	assert.True(t, ig.Check("k1").Allowed)
}

func TestIdempotencyGuard_TTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ig := NewIdempotencyGuard(time.Minute)
	ig.now = func() time.Time { return now }

	assert.True(t, ig.Check("k1").Allowed)
	now = now.Add(30 * time.Second)
	assert.False(t, ig.Check("k1").Allowed)

	now = now.Add(time.Minute)
	assert.True(t, ig.Check("k1").Allowed)
}
