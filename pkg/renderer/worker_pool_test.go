package renderer

import (
	"context"
	"errors"
	"image"
	"runtime"
	"sync/atomic"
	"testing"
)

func poolTiles(n int) []*Tile {
	tiles := make([]*Tile, n)
	for i := range tiles {
		tiles[i] = NewTile(i, image.Rect(0, 0, 4, 4), 42)
	}
	return tiles
}

func TestWorkerPoolProcessesAllTasks(t *testing.T) {
	var rendered int64
	pool := NewWorkerPool(3, 8, func(ctx context.Context, task TileTask) error {
		atomic.AddInt64(&rendered, 1)
		return nil
	})
	pool.Start(context.Background())

	tiles := poolTiles(8)
	for _, tile := range tiles {
		pool.Submit(TileTask{Tile: tile, Samples: 1})
	}

	seen := make(map[int]bool)
	for range tiles {
		result := <-pool.Results()
		if result.Err != nil {
			t.Fatalf("Tile %d failed: %v", result.Tile.ID, result.Err)
		}
		if seen[result.Tile.ID] {
			t.Fatalf("Tile %d completed twice", result.Tile.ID)
		}
		seen[result.Tile.ID] = true
	}
	pool.Shutdown()

	if got := atomic.LoadInt64(&rendered); got != 8 {
		t.Errorf("Expected 8 render calls, got %d", got)
	}
	if len(seen) != 8 {
		t.Errorf("Expected 8 distinct tiles, got %d", len(seen))
	}
}

func TestWorkerPoolReportsErrors(t *testing.T) {
	renderErr := errors.New("bad tile")
	pool := NewWorkerPool(2, 4, func(ctx context.Context, task TileTask) error {
		if task.Tile.ID == 2 {
			return renderErr
		}
		return nil
	})
	pool.Start(context.Background())

	tiles := poolTiles(4)
	for _, tile := range tiles {
		pool.Submit(TileTask{Tile: tile, Samples: 1})
	}

	var failed *TileResult
	for range tiles {
		result := <-pool.Results()
		if result.Err != nil {
			r := result
			failed = &r
		}
	}
	pool.Shutdown()

	if failed == nil {
		t.Fatal("Expected one failed tile")
	}
	if failed.Tile.ID != 2 || !errors.Is(failed.Err, renderErr) {
		t.Errorf("Expected tile 2 to fail with %v, got tile %d with %v", renderErr, failed.Tile.ID, failed.Err)
	}
}

func TestWorkerPoolCancelledContext(t *testing.T) {
	var rendered int64
	pool := NewWorkerPool(2, 4, func(ctx context.Context, task TileTask) error {
		atomic.AddInt64(&rendered, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool.Start(ctx)

	tiles := poolTiles(4)
	for _, tile := range tiles {
		pool.Submit(TileTask{Tile: tile, Samples: 1})
	}
	for range tiles {
		result := <-pool.Results()
		if !errors.Is(result.Err, context.Canceled) {
			t.Errorf("Tile %d: expected context.Canceled, got %v", result.Tile.ID, result.Err)
		}
	}
	pool.Shutdown()

	if got := atomic.LoadInt64(&rendered); got != 0 {
		t.Errorf("Expected no render calls after cancellation, got %d", got)
	}
}

func TestWorkerPoolDefaultSize(t *testing.T) {
	pool := NewWorkerPool(0, 1, func(ctx context.Context, task TileTask) error { return nil })
	if pool.NumWorkers() != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), pool.NumWorkers())
	}
}
