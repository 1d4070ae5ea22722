package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prism-rt/prism/pkg/output"
	"github.com/prism-rt/prism/pkg/renderer"
	"github.com/prism-rt/prism/pkg/scene"
)

// RenderCmd holds the flags of the render subcommand.
type RenderCmd struct {
	Scene         string `help:"Built-in scene name or path to a YAML/JSON scene file." default:"default"`
	Output        string `help:"Output image path. Defaults to output/<scene>/render_<timestamp>.png." short:"o"`
	Format        string `help:"Output image format." enum:"auto,png,ppm,ppm-binary" default:"auto"`
	Width         int    `help:"Image width in pixels (0 keeps the scene default)."`
	Samples       int    `help:"Samples per pixel (0 keeps the scene default)."`
	Depth         int    `help:"Maximum ray bounce depth (0 keeps the scene default)."`
	Seed          int64  `help:"Sampler seed (0 keeps the scene default)."`
	Workers       int    `help:"Worker goroutines (0 means one per CPU)."`
	Passes        int    `help:"Progressive pass budget." default:"7"`
	TileSize      int    `help:"Tile edge length in pixels." default:"64"`
	Checkpoint    string `help:"Checkpoint file to resume from and save to." type:"path"`
	Deterministic bool   `help:"Render single-threaded for byte-stable output."`
}

// renderLogger adapts the structured log for the renderer's Printf
// progress messages.
type renderLogger struct {
	log zerolog.Logger
}

func (l renderLogger) Printf(format string, args ...interface{}) {
	l.log.Info().Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// passStat records one completed pass for the statistics table.
type passStat struct {
	pass     int
	samples  int
	average  float64
	noise    float64
	duration time.Duration
}

func renderCommand(ctx context.Context, flags RenderCmd) error {
	if flags.Deterministic && flags.Checkpoint != "" {
		return errors.New("--checkpoint requires the progressive renderer, drop --deterministic")
	}

	sceneObj, err := loadScene(flags.Scene)
	if err != nil {
		return err
	}
	applyOverrides(sceneObj, flags)
	if err := sceneObj.Preprocess(); err != nil {
		return err
	}

	sampling := sceneObj.SamplingConfig
	log.Info().Str("scene", sceneObj.Name).
		Int("width", sampling.Width).
		Int("height", sampling.Height).
		Int("samples", sampling.SamplesPerPixel).
		Int("depth", sampling.MaxDepth).
		Int64("seed", sampling.Seed).
		Msg("render started")

	startTime := time.Now()
	var frame *renderer.Framebuffer
	if flags.Deterministic {
		frame, err = renderSingleThreaded(ctx, sceneObj)
	} else {
		frame, err = renderProgressive(ctx, sceneObj, flags)
	}
	if err != nil {
		return err
	}

	outPath := flags.Output
	if outPath == "" {
		outPath = defaultOutputPath(sceneObj.Name)
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	format := output.DetectFormat(outPath)
	if flags.Format != "" && flags.Format != "auto" {
		format = output.Format(flags.Format)
	}
	if err := output.Save(outPath, frame, format); err != nil {
		return err
	}

	log.Info().Str("path", outPath).
		Str("elapsed", time.Since(startTime).Round(time.Millisecond).String()).
		Msg("render saved")
	return nil
}

func renderSingleThreaded(ctx context.Context, sceneObj *scene.Scene) (*renderer.Framebuffer, error) {
	raytracer := renderer.NewRaytracer(sceneObj, renderLogger{log: log.Logger})
	return raytracer.Render(ctx)
}

func renderProgressive(ctx context.Context, sceneObj *scene.Scene, flags RenderCmd) (*renderer.Framebuffer, error) {
	config := renderer.ProgressiveConfig{
		TileSize:           flags.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: sceneObj.SamplingConfig.SamplesPerPixel,
		MaxPasses:          flags.Passes,
		NumWorkers:         flags.Workers,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	raytracer := renderer.NewProgressiveRaytracer(sceneObj, config, renderLogger{log: log.Logger})
	if flags.Checkpoint != "" {
		if err := loadCheckpoint(raytracer, flags.Checkpoint); err != nil {
			return nil, err
		}
	}

	passChan, _, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{})

	var stats []passStat
	lastPassTime := time.Now()
	for passResult := range passChan {
		now := time.Now()
		stats = append(stats, passStat{
			pass:     passResult.PassNumber,
			samples:  passResult.SamplesSoFar,
			average:  passResult.Stats.AverageSamples,
			noise:    math.Sqrt(passResult.Stats.AverageVariance),
			duration: now.Sub(lastPassTime),
		})
		lastPassTime = now
	}
	if err := <-errChan; err != nil {
		return nil, err
	}

	if len(stats) == 0 {
		log.Info().Msg("checkpoint already satisfies the sample budget, nothing to render")
	} else {
		printPassStats(stats)
	}

	if flags.Checkpoint != "" {
		if err := saveCheckpoint(raytracer, flags.Checkpoint); err != nil {
			return nil, err
		}
	}
	return raytracer.Framebuffer(), nil
}

// loadScene builds a scene from a built-in name or a scene file path.
func loadScene(name string) (*scene.Scene, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return scene.LoadFile(name)
	}
	return scene.NewBuiltin(name)
}

// applyOverrides copies the nonzero render flags into the scene config.
// Preprocess then derives the image height from the scene's aspect ratio.
func applyOverrides(sceneObj *scene.Scene, flags RenderCmd) {
	if flags.Width > 0 {
		sceneObj.CameraConfig.Width = flags.Width
	}
	if flags.Samples > 0 {
		sceneObj.SamplingConfig.SamplesPerPixel = flags.Samples
	}
	if flags.Depth > 0 {
		sceneObj.SamplingConfig.MaxDepth = flags.Depth
	}
	if flags.Seed != 0 {
		sceneObj.SamplingConfig.Seed = flags.Seed
	}
}

func defaultOutputPath(sceneName string) string {
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}

// loadCheckpoint resumes accumulated state from an earlier run. A
// missing file is not an error, the render simply starts fresh.
func loadCheckpoint(raytracer *renderer.ProgressiveRaytracer, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if err := raytracer.LoadCheckpoint(f); err != nil {
		return fmt.Errorf("loading checkpoint %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("resumed from checkpoint")
	return nil
}

func saveCheckpoint(raytracer *renderer.ProgressiveRaytracer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating checkpoint %s: %w", path, err)
	}
	if err := raytracer.SaveCheckpoint(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("checkpoint saved")
	return nil
}

// printPassStats logs a per-pass summary table after the render.
func printPassStats(stats []passStat) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pass", "Samples/px", "Avg samples", "Noise", "Pass time"})

	var total time.Duration
	for _, stat := range stats {
		total += stat.duration
		table.Append([]string{
			fmt.Sprintf("%d", stat.pass),
			fmt.Sprintf("%d", stat.samples),
			fmt.Sprintf("%.1f", stat.average),
			fmt.Sprintf("%.4f", stat.noise),
			stat.duration.Round(time.Millisecond).String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", total.Round(time.Millisecond).String()})
	table.Render()

	log.Info().Msgf("render statistics\n%s", buf.String())
}
