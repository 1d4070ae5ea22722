package renderer

import (
	"context"
	"image"

	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/integrator"
)

// Scene interface defines what the renderer needs from a scene.
// Local interface to avoid circular imports.
type Scene interface {
	GetCamera() *Camera
	GetWorld() core.Hittable
	GetBackgroundColors() (topColor, bottomColor core.Color)
	GetSamplingConfig() core.SamplingConfig
}

type noopLogger struct{}

func (noopLogger) Printf(format string, args ...interface{}) {}

// Raytracer renders a scene by tracing camera rays through the integrator
type Raytracer struct {
	scene      Scene
	integrator integrator.Integrator
	config     core.SamplingConfig
	logger     core.Logger
}

// NewRaytracer creates a raytracer for the given scene. A nil logger
// silences progress output.
func NewRaytracer(scene Scene, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = noopLogger{}
	}
	config := scene.GetSamplingConfig()
	return &Raytracer{
		scene:      scene,
		integrator: integrator.NewPathTracer(config.MaxDepth),
		config:     config,
		logger:     logger,
	}
}

// Render traces the whole image single-threaded with one sample stream.
// For a fixed scene and seed the output is reproducible byte for byte:
// pixels are visited top-to-bottom, left-to-right, with SamplesPerPixel
// rays drawn per pixel from a single sampler seeded with config.Seed.
func (rt *Raytracer) Render(ctx context.Context) (*Framebuffer, error) {
	camera := rt.scene.GetCamera()
	width := camera.ImageWidth()
	height := camera.ImageHeight()

	fb := NewFramebuffer(width, height)
	sampler := core.NewSeededSampler(rt.config.Seed)
	sampleScale := 1.0 / float64(rt.config.SamplesPerPixel)

	rt.logger.Printf("Rendering %dx%d at %d samples per pixel", width, height, rt.config.SamplesPerPixel)

	for j := 0; j < height; j++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for i := 0; i < width; i++ {
			pixelColor := core.NewColor(0, 0, 0)
			for s := 0; s < rt.config.SamplesPerPixel; s++ {
				ray := camera.GetRay(i, j, sampler)
				pixelColor = pixelColor.Add(rt.integrator.RayColor(ray, rt.scene, sampler))
			}
			fb.Set(i, j, pixelColor.Multiply(sampleScale))
		}
	}

	return fb, nil
}

// renderTilePass adds task.Samples samples to every pixel in the task's
// tile, drawing from the tile's own sampler
func (rt *Raytracer) renderTilePass(ctx context.Context, task TileTask) error {
	camera := rt.scene.GetCamera()
	tile := task.Tile
	bounds := tile.Bounds

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			idx := (j-bounds.Min.Y)*bounds.Dx() + (i - bounds.Min.X)
			for s := 0; s < task.Samples; s++ {
				ray := camera.GetRay(i, j, tile.sampler)
				tile.Pixels[idx].AddSample(rt.integrator.RayColor(ray, rt.scene, tile.sampler))
			}
		}
	}
	return nil
}

// Tile is a rectangular pixel region rendered as one unit of work. Each
// tile owns an independent sample stream so tiles can render in any order
// on any worker without changing the result.
type Tile struct {
	ID      int
	Bounds  image.Rectangle // Half-open pixel region
	Pixels  []PixelStats    // Row-major within Bounds
	sampler core.Sampler
	seed    int64
}

// tileSeedStride spaces per-tile seeds far apart so neighboring tiles do
// not draw correlated streams
const tileSeedStride int64 = 0x9E3779B9

// NewTile creates a tile whose sampler is seeded from the base seed and
// the tile ID
func NewTile(id int, bounds image.Rectangle, baseSeed int64) *Tile {
	seed := baseSeed + int64(id)*tileSeedStride
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Pixels:  make([]PixelStats, bounds.Dx()*bounds.Dy()),
		sampler: core.NewSeededSampler(seed),
		seed:    seed,
	}
}

// reseedAfterPass restarts the tile's sample stream at a pass-dependent
// offset. Used when resuming from a checkpoint, where the original
// sampler state is gone but already-consumed samples must not repeat.
func (t *Tile) reseedAfterPass(completedPasses int) {
	t.sampler = core.NewSeededSampler(t.seed + int64(completedPasses))
}

// NewTileGrid splits an image into tiles of at most tileSize pixels per
// side, row-major, with edge tiles clipped to the image bounds
func NewTileGrid(width, height, tileSize int, baseSeed int64) []*Tile {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]*Tile, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := x0 + tileSize
			y1 := y0 + tileSize
			if x1 > width {
				x1 = width
			}
			if y1 > height {
				y1 = height
			}
			id := ty*tilesX + tx
			tiles = append(tiles, NewTile(id, image.Rect(x0, y0, x1, y1), baseSeed))
		}
	}
	return tiles
}
