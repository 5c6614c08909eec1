// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// ParallelizeErr runs fn over contiguous ranges on up to workers goroutines
// and returns the error of the lowest-indexed range that failed.
// A non-positive workers value means one worker per CPU core.
func ParallelizeErr(items, workers int, fn func(start, end int) error) error {
	if items == 0 {
		return nil
	}

	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > items {
		numWorkers = items
	}
	if numWorkers == 1 {
		return fn(0, items)
	}

	// ceiling division so every item lands in some range
	chunkSize := (items + numWorkers - 1) / numWorkers
	errs := make([]error, numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			errs[w] = fn(s, e)
		}(i, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ParallelizeErrWithThreshold is ParallelizeErr that stays on the calling
// goroutine, as a single range, while items <= threshold.
func ParallelizeErrWithThreshold(items, workers, threshold int, fn func(start, end int) error) error {
	if items <= threshold {
		if items == 0 {
			return nil
		}
		return fn(0, items)
	}
	return ParallelizeErr(items, workers, fn)
}
