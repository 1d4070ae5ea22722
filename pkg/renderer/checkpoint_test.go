package renderer

import (
	"bytes"
	"strings"
	"testing"
)

func checkpointConfig() ProgressiveConfig {
	return ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 4, MaxPasses: 3, NumWorkers: 2}
}

func renderAllPasses(t *testing.T, pr *ProgressiveRaytracer) PassResult {
	t.Helper()
	passes, _ := collectProgressive(t, pr, RenderOptions{})
	if len(passes) == 0 {
		t.Fatal("No passes produced")
	}
	return passes[len(passes)-1]
}

func TestCheckpointRoundTrip(t *testing.T) {
	pr := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
	final := renderAllPasses(t, pr)
	if final.SamplesSoFar != 4 {
		t.Fatalf("Expected 4 samples before checkpointing, got %d", final.SamplesSoFar)
	}

	var buf bytes.Buffer
	if err := pr.SaveCheckpoint(&buf); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	restored := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
	if err := restored.LoadCheckpoint(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}

	if restored.completedPasses != pr.completedPasses {
		t.Errorf("Expected %d completed passes, got %d", pr.completedPasses, restored.completedPasses)
	}
	if restored.accumulatedSamples != pr.accumulatedSamples {
		t.Errorf("Expected %d accumulated samples, got %d", pr.accumulatedSamples, restored.accumulatedSamples)
	}
	for i := range pr.tiles {
		for p := range pr.tiles[i].Pixels {
			if restored.tiles[i].Pixels[p] != pr.tiles[i].Pixels[p] {
				t.Fatalf("Tile %d pixel %d diverged after restore", i, p)
			}
		}
	}
}

func TestCheckpointResumeWithLargerBudget(t *testing.T) {
	pr := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
	renderAllPasses(t, pr)

	var buf bytes.Buffer
	if err := pr.SaveCheckpoint(&buf); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	// The budget is not part of the fingerprint, so a resumed render may
	// extend it
	extended := checkpointConfig()
	extended.MaxSamplesPerPixel = 8
	extended.MaxPasses = 4

	restored := NewProgressiveRaytracer(sphereScene(42), extended, nil)
	if err := restored.LoadCheckpoint(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}

	final := renderAllPasses(t, restored)
	if final.SamplesSoFar != 8 {
		t.Errorf("Expected 8 samples after resume, got %d", final.SamplesSoFar)
	}
	if final.Stats.MinSamples != 8 || final.Stats.MaxSamples != 8 {
		t.Errorf("Expected uniform 8 samples, got min %d max %d", final.Stats.MinSamples, final.Stats.MaxSamples)
	}
	if !final.IsLast {
		t.Error("Expected the resumed final pass to be marked last")
	}
}

func TestCheckpointFingerprintMismatch(t *testing.T) {
	pr := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
	renderAllPasses(t, pr)

	var buf bytes.Buffer
	if err := pr.SaveCheckpoint(&buf); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	t.Run("Different seed", func(t *testing.T) {
		other := NewProgressiveRaytracer(sphereScene(43), checkpointConfig(), nil)
		err := other.LoadCheckpoint(bytes.NewReader(buf.Bytes()))
		if err == nil || !strings.Contains(err.Error(), "fingerprint") {
			t.Errorf("Expected fingerprint mismatch, got %v", err)
		}
	})

	t.Run("Different camera", func(t *testing.T) {
		scene := sphereScene(42)
		config := scene.camera.config
		config.VFov = 60
		scene.camera = NewCamera(config)

		other := NewProgressiveRaytracer(scene, checkpointConfig(), nil)
		err := other.LoadCheckpoint(bytes.NewReader(buf.Bytes()))
		if err == nil || !strings.Contains(err.Error(), "fingerprint") {
			t.Errorf("Expected fingerprint mismatch, got %v", err)
		}
	})

	t.Run("Matching configuration accepts", func(t *testing.T) {
		other := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
		if err := other.LoadCheckpoint(bytes.NewReader(buf.Bytes())); err != nil {
			t.Errorf("Expected matching checkpoint to load, got %v", err)
		}
	})
}

func TestCheckpointRejectsGarbage(t *testing.T) {
	pr := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
	if err := pr.LoadCheckpoint(bytes.NewReader([]byte("not a checkpoint"))); err == nil {
		t.Error("Expected an error for malformed checkpoint data")
	}
}

func TestCheckpointDoesNotRepeatSamples(t *testing.T) {
	pr := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
	renderAllPasses(t, pr)

	var buf bytes.Buffer
	if err := pr.SaveCheckpoint(&buf); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	restored := NewProgressiveRaytracer(sphereScene(42), checkpointConfig(), nil)
	if err := restored.LoadCheckpoint(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadCheckpoint failed: %v", err)
	}

	// The restored sampler must not replay the stream a fresh tile starts
	// with, or resumed passes would average in duplicate samples
	fresh := NewTile(0, restored.tiles[0].Bounds, sphereScene(42).config.Seed)
	if fresh.sampler.Get3D() == restored.tiles[0].sampler.Get3D() {
		t.Error("Restored tile sampler replays the original stream")
	}
}
