package export

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForEach_ProcessesEveryItem(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}

	forEach(context.Background(), 20, 6, func(i int) {
		mu.Lock()
		seen[i] = true
		mu.Unlock()
	})

	assert.Len(t, seen, 20)
}

func TestForEach_BoundedConcurrency(t *testing.T) {
	// With a pool of 6 and 20 delayed items, no more than 6 items may be
	// in flight at any instant.
	var inFlight int32
	var peak int32

	forEach(context.Background(), 20, 6, func(i int) {
		current := atomic.AddInt32(&inFlight, 1)
		for {
			max := atomic.LoadInt32(&peak)
			if current <= max || atomic.CompareAndSwapInt32(&peak, max, current) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
	})

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(6))
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1))
}

func TestForEach_ZeroTotal(t *testing.T) {
	called := false
	forEach(context.Background(), 0, 6, func(i int) { called = true })
	assert.False(t, called)
}

func TestForEach_CancelledContextStopsClaiming(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var count int32
	forEach(ctx, 100, 2, func(i int) {
		if atomic.AddInt32(&count, 1) == 2 {
			cancel()
		}
		time.Sleep(time.Millisecond)
	})

	assert.Less(t, atomic.LoadInt32(&count), int32(100))
}
