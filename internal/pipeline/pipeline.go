package pipeline

import (
	"runtime"
	"sync"
)

// Run fans fn out over the indices [0, n) using a bounded worker pool and
// returns every error the calls produced. fn must only write to result
// slots it owns; Run provides no other synchronization.
func Run(n, workers int, fn func(i int) error) []error {
	if n <= 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	errs := make(chan error, n)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := fn(i); err != nil {
					errs <- err
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(errs)

	out := make([]error, 0, len(errs))
	for err := range errs {
		out = append(out, err)
	}
	return out
}
