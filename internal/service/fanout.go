package service

import (
	"sync"

	"github.com/google/uuid"
)

// fanOut serializes cache writes and broadcasts per match and drops any
// that would go out behind a newer version.
type fanOut struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*fanOutSlot
}

type fanOutSlot struct {
	mu   sync.Mutex
	sent int64
}

func newFanOut() *fanOut {
	return &fanOut{slots: make(map[uuid.UUID]*fanOutSlot)}
}

// do runs fn for version unless a higher version of the match already went
// out. It reports whether fn ran.
func (f *fanOut) do(matchID uuid.UUID, version int64, fn func()) bool {
	f.mu.Lock()
	slot, ok := f.slots[matchID]
	if !ok {
		slot = &fanOutSlot{}
		f.slots[matchID] = slot
	}
	f.mu.Unlock()

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if version < slot.sent {
		return false
	}
	slot.sent = version
	fn()
	return true
}
