package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/material"
)

// sphereScene gives the progressive renderer something non-uniform to
// chew on: a diffuse sphere against the sky gradient
func sphereScene(seed int64) *testScene {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewPoint(0, 0, -2), 0.9, material.NewLambertian(core.NewColor(0.7, 0.3, 0.3))),
	)
	return newTestScene(16, 1, seed, world, core.NewColor(0.5, 0.7, 1.0), core.NewColor(1, 1, 1))
}

// collectProgressive drains all three channels and fails the test on a
// render error
func collectProgressive(t *testing.T, pr *ProgressiveRaytracer, options RenderOptions) ([]PassResult, []TileCompletionResult) {
	t.Helper()

	passChan, tileChan, errChan := pr.RenderProgressive(context.Background(), options)

	var tileUpdates []TileCompletionResult
	tilesDone := make(chan struct{})
	go func() {
		defer close(tilesDone)
		for update := range tileChan {
			tileUpdates = append(tileUpdates, update)
		}
	}()

	var passes []PassResult
	for pass := range passChan {
		passes = append(passes, pass)
	}
	<-tilesDone

	if err, ok := <-errChan; ok {
		t.Fatalf("Render failed: %v", err)
	}
	return passes, tileUpdates
}

func TestSamplesForPassSchedule(t *testing.T) {
	t.Run("Doubling with final jump", func(t *testing.T) {
		config := ProgressiveConfig{TileSize: 8, InitialSamples: 2, MaxSamplesPerPixel: 100, MaxPasses: 5}
		pr := NewProgressiveRaytracer(sphereScene(42), config, nil)

		expected := []int{2, 2, 4, 8, 84}
		for pass := 1; pass <= 5; pass++ {
			got := pr.samplesForPass(pass)
			if got != expected[pass-1] {
				t.Errorf("Pass %d: expected %d samples, got %d", pass, expected[pass-1], got)
			}
			pr.accumulatedSamples += got
		}
		if pr.accumulatedSamples != 100 {
			t.Errorf("Expected 100 accumulated samples, got %d", pr.accumulatedSamples)
		}
	})

	t.Run("Budget reached before pass limit", func(t *testing.T) {
		config := ProgressiveConfig{TileSize: 8, InitialSamples: 4, MaxSamplesPerPixel: 8, MaxPasses: 10}
		pr := NewProgressiveRaytracer(sphereScene(42), config, nil)

		expected := []int{4, 4, 0}
		for pass := 1; pass <= 3; pass++ {
			got := pr.samplesForPass(pass)
			if got != expected[pass-1] {
				t.Errorf("Pass %d: expected %d samples, got %d", pass, expected[pass-1], got)
			}
			pr.accumulatedSamples += got
		}
	})
}

func TestProgressiveConfigValidate(t *testing.T) {
	if err := DefaultProgressiveConfig().Validate(); err != nil {
		t.Fatalf("Default config should validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ProgressiveConfig)
	}{
		{"Zero tile size", func(c *ProgressiveConfig) { c.TileSize = 0 }},
		{"Zero initial samples", func(c *ProgressiveConfig) { c.InitialSamples = 0 }},
		{"Budget below initial samples", func(c *ProgressiveConfig) { c.MaxSamplesPerPixel = c.InitialSamples - 1 }},
		{"Zero passes", func(c *ProgressiveConfig) { c.MaxPasses = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultProgressiveConfig()
			tt.mutate(&config)
			if err := config.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestRenderProgressivePassStream(t *testing.T) {
	background := core.NewColor(0.5, 0.6, 0.7)
	scene := newTestScene(16, 1, 42, geometry.NewHittableList(), background, background)
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 3, NumWorkers: 2}

	pr := NewProgressiveRaytracer(scene, config, nil)
	passes, _ := collectProgressive(t, pr, RenderOptions{})

	if len(passes) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(passes))
	}

	expectedSamples := []int{1, 2, 4}
	for i, pass := range passes {
		if pass.PassNumber != i+1 {
			t.Errorf("Pass %d: expected number %d, got %d", i, i+1, pass.PassNumber)
		}
		if pass.SamplesSoFar != expectedSamples[i] {
			t.Errorf("Pass %d: expected %d samples so far, got %d", i+1, expectedSamples[i], pass.SamplesSoFar)
		}
		if pass.Stats.MinSamples != expectedSamples[i] || pass.Stats.MaxSamples != expectedSamples[i] {
			t.Errorf("Pass %d: expected uniform %d samples, got min %d max %d",
				i+1, expectedSamples[i], pass.Stats.MinSamples, pass.Stats.MaxSamples)
		}
		if pass.Image.Bounds() != image.Rect(0, 0, 16, 16) {
			t.Errorf("Pass %d: unexpected image bounds %v", i+1, pass.Image.Bounds())
		}
		if last := i == len(passes)-1; pass.IsLast != last {
			t.Errorf("Pass %d: expected IsLast=%v", i+1, last)
		}
	}

	// A uniform background is exact regardless of sample count
	want := colorToRGBA(background)
	for _, pass := range passes {
		if got := pass.Image.RGBAAt(5, 9); got != want {
			t.Errorf("Pass %d: expected pixel %v, got %v", pass.PassNumber, want, got)
		}
	}
}

func TestRenderProgressiveTileUpdates(t *testing.T) {
	scene := sphereScene(42)
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 3, NumWorkers: 2}

	pr := NewProgressiveRaytracer(scene, config, nil)
	passes, tileUpdates := collectProgressive(t, pr, RenderOptions{EnableTileUpdates: true})

	// 16x16 at tile size 8 is a 2x2 grid, updated once per pass
	if len(tileUpdates) != 4*len(passes) {
		t.Fatalf("Expected %d tile updates, got %d", 4*len(passes), len(tileUpdates))
	}

	perPass := make(map[int]image.Rectangle)
	for _, update := range tileUpdates {
		if update.Image.Bounds().Dx() != update.Bounds.Dx() || update.Image.Bounds().Dy() != update.Bounds.Dy() {
			t.Errorf("Tile %d image %v does not match bounds %v", update.TileID, update.Image.Bounds(), update.Bounds)
		}
		perPass[update.PassNumber] = perPass[update.PassNumber].Union(update.Bounds)
	}
	for pass, covered := range perPass {
		if covered != image.Rect(0, 0, 16, 16) {
			t.Errorf("Pass %d tile updates cover %v, expected full image", pass, covered)
		}
	}
}

func TestRenderProgressiveWorkerCountInvariance(t *testing.T) {
	render := func(workers int) *image.RGBA {
		config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 3, NumWorkers: workers}
		pr := NewProgressiveRaytracer(sphereScene(42), config, nil)
		passes, _ := collectProgressive(t, pr, RenderOptions{})
		if len(passes) == 0 {
			t.Fatal("No passes produced")
		}
		return passes[len(passes)-1].Image
	}

	serial := render(1)
	parallel := render(4)
	if !bytes.Equal(serial.Pix, parallel.Pix) {
		t.Error("Worker count changed the rendered image")
	}
}

func TestRenderProgressiveCancellation(t *testing.T) {
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 64, MaxPasses: 6, NumWorkers: 2}
	pr := NewProgressiveRaytracer(sphereScene(42), config, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, tileChan, errChan := pr.RenderProgressive(ctx, RenderOptions{})
	for range passChan {
	}
	for range tileChan {
	}

	err, ok := <-errChan
	if !ok {
		t.Fatal("Expected an error from a cancelled render")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
