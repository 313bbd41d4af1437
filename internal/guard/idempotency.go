// Package guard holds request guards that sit in front of the scoring service.
package guard

import (
	"sync"
	"time"
)

// Result is the verdict of a guard check.
type Result struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Guard   string `json:"guard,omitempty"`
}

// IdempotencyGuard rejects scoring events resubmitted under a key it has
// already seen.
type IdempotencyGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewIdempotencyGuard remembers keys for ttl. A zero ttl keeps them forever.
func NewIdempotencyGuard(ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Check claims the key. An empty key is always allowed.
func (ig *IdempotencyGuard) Check(key string) Result {
	if key == "" {
		return Result{Allowed: true}
	}

	ig.mu.Lock()
	defer ig.mu.Unlock()

	now := ig.now()
	if at, ok := ig.seen[key]; ok && (ig.ttl == 0 || now.Sub(at) < ig.ttl) {
		return Result{
			Allowed: false,
			Reason:  "duplicate request: idempotency key already processed",
			Guard:   "idempotency",
		}
	}
	ig.seen[key] = now
	ig.sweep(now)
	return Result{Allowed: true}
}

// Remove releases a key so a failed request can be retried.
func (ig *IdempotencyGuard) Remove(key string) {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	delete(ig.seen, key)
}

// sweep drops expired keys. Called with mu held.
func (ig *IdempotencyGuard) sweep(now time.Time) {
	if ig.ttl == 0 {
		return
	}
	for k, at := range ig.seen {
		if now.Sub(at) >= ig.ttl {
			delete(ig.seen, k)
		}
	}
}
