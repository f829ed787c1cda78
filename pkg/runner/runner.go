// Package runner fans independent symbol-day batches out over a fixed worker
// pool. Batches share no mutable state, so the only coordination is the job
// feed itself; inside one batch the stages stay strictly sequential.
package runner

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tickworks/minbar/pkg/common"
	"github.com/tickworks/minbar/pkg/resample"
	"github.com/tickworks/minbar/pkg/schema"
)

type Job struct {
	Name string
	Rows []schema.Row
	Ctx  common.BatchContext
}

type Outcome struct {
	Job    Job
	Result resample.Result
	Err    error
}

// Process resamples every job and returns outcomes in job order. A failed
// batch never affects its siblings; cancellation abandons in-flight batches
// with no partial state to roll back.
func Process(ctx context.Context, logger *zap.Logger, jobs []Job, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	outcomes := make([]Outcome, len(jobs))
	feed := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pipeline := resample.NewPipeline(logger)
			for i := range feed {
				result, err := pipeline.Run(ctx, jobs[i].Rows, jobs[i].Ctx)
				outcomes[i] = Outcome{Job: jobs[i], Result: result, Err: err}
			}
		}()
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			outcomes[i] = Outcome{Job: jobs[i], Err: ctx.Err()}
		case feed <- i:
		}
	}
	close(feed)
	wg.Wait()

	return outcomes
}
