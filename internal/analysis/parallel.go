package analysis

import (
	"runtime"
	"sync"
)

// ScanParallel is Scan with the grid split into contiguous chunks of at
// least minChunk points, one goroutine per chunk. f must allow concurrent
// Evaluate calls, which a solved *omnes.Factor does. workers <= 0 means
// GOMAXPROCS.
func ScanParallel(f Evaluator, grid []float64, workers, minChunk int) []Sample {
	samples := make([]Sample, len(grid))
	parallelFor(len(grid), workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			w, err := f.Evaluate(grid[i])
			samples[i] = Sample{S: grid[i], Omega: w, Phase: f.Phase(grid[i]), Err: err}
		}
	})
	return samples
}

// parallelFor executes fn over [0, n) in at most workers chunks.
func parallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
