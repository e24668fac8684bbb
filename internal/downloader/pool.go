package downloader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"unsplashdl/pkg/logger"
)

// MaxWorkers caps the size of a pool
const MaxWorkers = 10

// WorkerPool runs indexed jobs on a bounded number of goroutines.
// With one worker jobs run strictly one after another, in index order.
type WorkerPool struct {
	numWorkers int
	logger     logger.Logger
}

// NewWorkerPool creates a pool; numWorkers is clamped to 1..MaxWorkers
func NewWorkerPool(numWorkers int, log logger.Logger) *WorkerPool {
	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > MaxWorkers {
		numWorkers = MaxWorkers
	}
	return &WorkerPool{numWorkers: numWorkers, logger: log}
}

// GetActiveWorkers returns the number of workers the pool runs
func (wp *WorkerPool) GetActiveWorkers() int {
	return wp.numWorkers
}

// Run calls job(ctx, i) for every i in [0, n) and waits for all of them.
// Jobs report their own outcome; a failing job never stops the others.
// Once ctx is done, jobs not yet started are handed to skip instead.
func (wp *WorkerPool) Run(ctx context.Context, n int, job func(ctx context.Context, i int), skip func(i int, err error)) {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
		"jobs":        n,
	})

	var g errgroup.Group
	g.SetLimit(wp.numWorkers)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				skip(i, err)
				return nil
			}
			job(ctx, i)
			return nil
		})
	}

	_ = g.Wait()
	wp.logger.Debug("Worker pool stopped")
}
