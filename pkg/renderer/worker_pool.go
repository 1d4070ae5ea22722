package renderer

import (
	"context"
	"runtime"
	"sync"
)

// TileTask is one unit of work: add Samples samples per pixel to Tile
type TileTask struct {
	Tile    *Tile
	Samples int
}

// TileResult reports a finished or failed tile task
type TileResult struct {
	Tile *Tile
	Err  error
}

// RenderFunc renders one tile task
type RenderFunc func(ctx context.Context, task TileTask) error

// WorkerPool fans tile tasks out to a fixed set of goroutines. Tasks are
// queued with Submit and completions arrive on Results in whatever order
// the workers finish them.
type WorkerPool struct {
	numWorkers int
	tasks      chan TileTask
	results    chan TileResult
	renderFunc RenderFunc
	wg         sync.WaitGroup
}

// NewWorkerPool creates a pool. numWorkers <= 0 uses one worker per CPU.
// queueSize should cover the largest batch submitted before results are
// drained, so Submit never blocks mid-batch.
func NewWorkerPool(numWorkers, queueSize int, renderFunc RenderFunc) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		tasks:      make(chan TileTask, queueSize),
		results:    make(chan TileResult, queueSize),
		renderFunc: renderFunc,
	}
}

// Start launches the worker goroutines
func (wp *WorkerPool) Start(ctx context.Context) {
	for w := 0; w < wp.numWorkers; w++ {
		wp.wg.Add(1)
		go wp.worker(ctx)
	}
}

func (wp *WorkerPool) worker(ctx context.Context) {
	defer wp.wg.Done()
	for task := range wp.tasks {
		select {
		case <-ctx.Done():
			// Keep draining so the submitter's result loop terminates
			wp.results <- TileResult{Tile: task.Tile, Err: ctx.Err()}
			continue
		default:
		}
		err := wp.renderFunc(ctx, task)
		wp.results <- TileResult{Tile: task.Tile, Err: err}
	}
}

// Submit queues one tile task
func (wp *WorkerPool) Submit(task TileTask) {
	wp.tasks <- task
}

// Results returns the completion channel
func (wp *WorkerPool) Results() <-chan TileResult {
	return wp.results
}

// NumWorkers returns the number of goroutines the pool runs
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Shutdown stops accepting tasks and waits for the workers to exit
func (wp *WorkerPool) Shutdown() {
	close(wp.tasks)
	wp.wg.Wait()
}
