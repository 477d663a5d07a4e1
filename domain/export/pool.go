package export

import (
	"context"
	"sync"
	"sync/atomic"
)

// forEach runs fn(i) for every i in [0, total) through a fixed pool of
// workers pulling from a shared cursor, so at most `workers` items are
// in flight at any instant. A cancelled context stops workers from
// claiming further items; items already claimed run to completion.
func forEach(ctx context.Context, total, workers int, fn func(i int)) {
	if total <= 0 {
		return
	}
	if workers > total {
		workers = total
	}
	if workers < 1 {
		workers = 1
	}

	var cursor int64 = -1
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1))
				if i >= total || ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}()
	}

	wg.Wait()
}
