package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFanOut_DropsOlderVersions(t *testing.T) {
	f := newFanOut()
	id := uuid.New()
	var ran []int64
	send := func(v int64) bool { return f.do(id, v, func() { ran = append(ran, v) }) }

	assert.True(t, send(3))
	assert.True(t, send(5))
	assert.False(t, send(4))
	assert.True(t, send(5), "same version may go out again")
	assert.True(t, f.do(uuid.New(), 1, func() {}), "matches are independent")
	assert.Equal(t, []int64{3, 5, 5}, ran)
}

func TestFanOut_ConcurrentSendersStayOrdered(t *testing.T) {
	f := newFanOut()
	id := uuid.New()
	var mu sync.Mutex
	var ran []int64

	var wg sync.WaitGroup
	for v := int64(1); v <= 50; v++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.do(id, v, func() {
				mu.Lock()
				ran = append(ran, v)
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	assert.IsIncreasing(t, ran)
	assert.Equal(t, int64(50), ran[len(ran)-1])
}
