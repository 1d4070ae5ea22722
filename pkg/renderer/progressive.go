package renderer

import (
	"context"
	"fmt"
	"image"

	"github.com/prism-rt/prism/pkg/core"
)

// ProgressiveConfig controls tiling and the pass schedule
type ProgressiveConfig struct {
	TileSize           int // Tile side length in pixels
	InitialSamples     int // Samples per pixel in the first pass
	MaxSamplesPerPixel int // Total samples per pixel after the final pass
	MaxPasses          int // Upper bound on the number of passes
	NumWorkers         int // 0 means one worker per CPU
}

// DefaultProgressiveConfig returns a quick-preview schedule: one sample
// on the first pass, then doubling until the sample budget is reached
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 100,
		MaxPasses:          8,
		NumWorkers:         0,
	}
}

// Validate checks the configuration for impossible schedules
func (c ProgressiveConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.InitialSamples < 1 {
		return fmt.Errorf("initial samples must be at least 1, got %d", c.InitialSamples)
	}
	if c.MaxSamplesPerPixel < c.InitialSamples {
		return fmt.Errorf("max samples per pixel (%d) must be at least initial samples (%d)",
			c.MaxSamplesPerPixel, c.InitialSamples)
	}
	if c.MaxPasses < 1 {
		return fmt.Errorf("max passes must be at least 1, got %d", c.MaxPasses)
	}
	return nil
}

// PassResult delivers the image state after a completed pass
type PassResult struct {
	PassNumber   int // 1-based
	SamplesSoFar int // Samples per pixel accumulated so far
	Image        *image.RGBA
	Stats        RenderStats
	IsLast       bool
}

// TileCompletionResult delivers one finished tile within a pass
type TileCompletionResult struct {
	PassNumber int
	TileID     int
	Bounds     image.Rectangle // Position within the full image
	Image      *image.RGBA     // Pixels of this tile only
}

// RenderOptions controls what RenderProgressive streams
type RenderOptions struct {
	// EnableTileUpdates streams per-tile images as tiles finish. The
	// caller must then drain the tile channel or rendering stalls.
	EnableTileUpdates bool
}

// ProgressiveRaytracer renders a scene in passes of increasing sample
// counts, streaming intermediate results as they become available
type ProgressiveRaytracer struct {
	scene              Scene
	raytracer          *Raytracer
	config             ProgressiveConfig
	tiles              []*Tile
	width              int
	height             int
	accumulatedSamples int
	completedPasses    int
	logger             core.Logger
}

// NewProgressiveRaytracer creates a progressive raytracer with a fresh
// tile grid seeded from the scene's sampling seed
func NewProgressiveRaytracer(scene Scene, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if logger == nil {
		logger = noopLogger{}
	}
	camera := scene.GetCamera()
	width := camera.ImageWidth()
	height := camera.ImageHeight()

	return &ProgressiveRaytracer{
		scene:     scene,
		raytracer: NewRaytracer(scene, logger),
		config:    config,
		tiles:     NewTileGrid(width, height, config.TileSize, scene.GetSamplingConfig().Seed),
		width:     width,
		height:    height,
		logger:    logger,
	}
}

// samplesForPass returns how many samples the given pass should add per
// pixel. Pass targets double each pass from InitialSamples, and the final
// pass jumps straight to the full budget.
func (pr *ProgressiveRaytracer) samplesForPass(passNumber int) int {
	var target int
	if passNumber >= pr.config.MaxPasses {
		target = pr.config.MaxSamplesPerPixel
	} else {
		target = pr.config.InitialSamples << (passNumber - 1)
		if target > pr.config.MaxSamplesPerPixel {
			target = pr.config.MaxSamplesPerPixel
		}
	}
	samples := target - pr.accumulatedSamples
	if samples < 0 {
		return 0
	}
	return samples
}

// RenderProgressive renders all remaining passes in a background
// goroutine. Pass results, optional tile updates, and at most one error
// arrive on the returned channels; all three are closed when rendering
// ends. Cancelling the context stops the render and surfaces ctx.Err().
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, pr.config.MaxPasses)
	tileChan := make(chan TileCompletionResult, len(pr.tiles))
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(tileChan)
		defer close(errChan)

		pool := NewWorkerPool(pr.config.NumWorkers, len(pr.tiles), pr.raytracer.renderTilePass)
		pool.Start(ctx)
		defer pool.Shutdown()

		pr.logger.Printf("Progressive render: %dx%d, %d tiles, %d workers",
			pr.width, pr.height, len(pr.tiles), pool.NumWorkers())

		for pass := pr.completedPasses + 1; pass <= pr.config.MaxPasses; pass++ {
			samples := pr.samplesForPass(pass)
			if samples == 0 {
				return
			}

			if err := pr.renderPass(ctx, pool, pass, samples, options, tileChan); err != nil {
				errChan <- err
				return
			}
			pr.accumulatedSamples += samples
			pr.completedPasses = pass

			img, stats := pr.assembleCurrentImage()
			result := PassResult{
				PassNumber:   pass,
				SamplesSoFar: pr.accumulatedSamples,
				Image:        img,
				Stats:        stats,
				IsLast:       pass == pr.config.MaxPasses || pr.accumulatedSamples >= pr.config.MaxSamplesPerPixel,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			pr.logger.Printf("Pass %d/%d complete: %d samples per pixel",
				pass, pr.config.MaxPasses, pr.accumulatedSamples)

			if result.IsLast {
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

func (pr *ProgressiveRaytracer) renderPass(ctx context.Context, pool *WorkerPool, pass, samples int, options RenderOptions, tileChan chan<- TileCompletionResult) error {
	for _, tile := range pr.tiles {
		pool.Submit(TileTask{Tile: tile, Samples: samples})
	}

	for range pr.tiles {
		result := <-pool.Results()
		if result.Err != nil {
			return result.Err
		}
		if !options.EnableTileUpdates {
			continue
		}
		update := TileCompletionResult{
			PassNumber: pass,
			TileID:     result.Tile.ID,
			Bounds:     result.Tile.Bounds,
			Image:      extractTileImage(result.Tile),
		}
		select {
		case tileChan <- update:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// assembleCurrentImage builds the full image from the tile accumulators
// together with sampling statistics. Only called between passes, when no
// worker is writing.
func (pr *ProgressiveRaytracer) assembleCurrentImage() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	for _, tile := range pr.tiles {
		b := tile.Bounds
		for j := b.Min.Y; j < b.Max.Y; j++ {
			for i := b.Min.X; i < b.Max.X; i++ {
				img.SetRGBA(i, j, colorToRGBA(tile.Pixels[(j-b.Min.Y)*b.Dx()+(i-b.Min.X)].GetColor()))
			}
		}
	}
	return img, CollectTileStats(pr.tiles, pr.config.MaxSamplesPerPixel)
}

// Framebuffer copies the accumulated linear colors into a framebuffer,
// for output formats that need more than the 8-bit image. Only valid
// between passes.
func (pr *ProgressiveRaytracer) Framebuffer() *Framebuffer {
	fb := NewFramebuffer(pr.width, pr.height)
	for _, tile := range pr.tiles {
		b := tile.Bounds
		for j := b.Min.Y; j < b.Max.Y; j++ {
			for i := b.Min.X; i < b.Max.X; i++ {
				fb.Set(i, j, tile.Pixels[(j-b.Min.Y)*b.Dx()+(i-b.Min.X)].GetColor())
			}
		}
	}
	return fb
}

func extractTileImage(tile *Tile) *image.RGBA {
	b := tile.Bounds
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for j := 0; j < b.Dy(); j++ {
		for i := 0; i < b.Dx(); i++ {
			img.SetRGBA(i, j, colorToRGBA(tile.Pixels[j*b.Dx()+i].GetColor()))
		}
	}
	return img
}
