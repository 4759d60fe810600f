package discovery

import (
	"context"
	"sync"
)

// batchSize bounds per-bundle work in flight (manifest reads, icon
// conversions) so one scan cannot overwhelm the OS process table.
const batchSize = 15

// eachBatch processes items in fixed-size batches. Items within a batch
// run concurrently; batches run sequentially.
func eachBatch[T any](ctx context.Context, items []T, fn func(context.Context, T)) {
	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))
		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func(it T) {
				defer wg.Done()
				fn(ctx, it)
			}(item)
		}
		wg.Wait()
	}
}
