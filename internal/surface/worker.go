package surface

import (
	"runtime"
	"sync"
)

// workerCount resolves a requested worker count: zero or negative means one
// worker per CPU.
func workerCount(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// parallelFor splits the index range [0, n) into one contiguous chunk per
// worker and runs fn(start, end) on each chunk from its own goroutine,
// returning once all chunks complete. Stages built on parallelFor rely on
// write idempotence rather than locks; see the per-stage race notes.
func parallelFor(n, workers int, fn func(start, end int)) {
	workers = workerCount(workers)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
