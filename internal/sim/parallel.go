package sim

import (
	"context"
	"sync"
)

// Job is one independent run in a batch. Each job owns its world, so jobs
// may run concurrently.
type Job struct {
	Name   string
	Runner *Runner
	Config Config
}

type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// RunBatch runs every job on its own goroutine and returns results in job
// order. Errors are reported per job.
func RunBatch(ctx context.Context, jobs []Job) []BatchResult {
	results := make([]BatchResult, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			res, err := job.Runner.Run(ctx, job.Config)
			results[idx] = BatchResult{Name: job.Name, Result: res, Err: err}
		}(i, job)
	}

	wg.Wait()
	return results
}
