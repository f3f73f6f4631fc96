// Package parallel provides bounded fan-out helpers for the tagger's numeric
// kernels and batch dispatch.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Config controls parallel execution behavior.
type Config struct {
	Workers      int // Maximum number of goroutines; <= 1 means sequential.
	MinChunkSize int // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count, tuned for row-level
// kernel work.
func DefaultConfig() Config {
	return Config{
		Workers:      runtime.NumCPU(),
		MinChunkSize: 16,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{Workers: 1}
}

// For executes f(i) for i in [0, n), split into contiguous chunks.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	minChunk := max(cfg.MinChunkSize, 1)
	if cfg.Workers <= 1 || n < 2*minChunk {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.Workers-1)/cfg.Workers, minChunk)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// Each runs task(i) for i in [0, n) on at most workers goroutines, handing
// out indexes one at a time. It is meant for coarse, uneven tasks such as
// scoring one batch per index. The returned error is the one of the lowest
// failing index, so the result does not depend on scheduling.
func Each(n, workers int, task func(i int) error) error {
	if n == 0 {
		return nil
	}
	errs := make([]error, n)
	if workers <= 1 || n == 1 {
		for i := 0; i < n; i++ {
			errs[i] = task(i)
		}
		return firstError(errs)
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < min(workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				errs[i] = task(i)
			}
		}()
	}
	wg.Wait()
	return firstError(errs)
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
