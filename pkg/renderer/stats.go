package renderer

import (
	"github.com/prism-rt/prism/pkg/core"
)

// PixelStats accumulates radiance samples for one pixel across render passes
type PixelStats struct {
	ColorAccum       core.Color `cbor:"c"`
	LuminanceAccum   float64    `cbor:"l"`
	LuminanceSqAccum float64    `cbor:"l2"`
	SampleCount      int        `cbor:"n"`
}

// AddSample folds one radiance sample into the accumulators
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the mean color over all accumulated samples
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.NewColor(0, 0, 0)
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// LuminanceVariance returns the unbiased sample variance of the pixel luminance
func (ps *PixelStats) LuminanceVariance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	variance := (ps.LuminanceSqAccum - n*mean*mean) / (n - 1)
	if variance < 0 {
		// Rounding can push the difference slightly negative
		return 0
	}
	return variance
}

// RenderStats summarizes sampling effort over a finished image or pass
type RenderStats struct {
	TotalPixels     int
	TotalSamples    int
	AverageSamples  float64
	MinSamples      int     // Lowest per-pixel sample count
	MaxSamples      int     // Highest per-pixel sample count
	MaxSamplesUsed  int     // Configured per-pixel ceiling
	AverageVariance float64 // Mean per-pixel luminance variance, a noise measure
}

// CollectStats aggregates per-pixel sample counts into render statistics
func CollectStats(pixels []PixelStats, maxSamplesPerPixel int) RenderStats {
	stats := RenderStats{
		TotalPixels:    len(pixels),
		MaxSamplesUsed: maxSamplesPerPixel,
	}
	if len(pixels) == 0 {
		return stats
	}

	varianceSum := 0.0
	stats.MinSamples = pixels[0].SampleCount
	for i := range pixels {
		count := pixels[i].SampleCount
		stats.TotalSamples += count
		if count < stats.MinSamples {
			stats.MinSamples = count
		}
		if count > stats.MaxSamples {
			stats.MaxSamples = count
		}
		varianceSum += pixels[i].LuminanceVariance()
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.AverageVariance = varianceSum / float64(stats.TotalPixels)
	return stats
}

// CollectTileStats merges per-tile statistics into image-wide totals
func CollectTileStats(tiles []*Tile, maxSamplesPerPixel int) RenderStats {
	stats := RenderStats{MaxSamplesUsed: maxSamplesPerPixel}

	varianceSum := 0.0
	for i, tile := range tiles {
		ts := CollectStats(tile.Pixels, maxSamplesPerPixel)
		stats.TotalPixels += ts.TotalPixels
		stats.TotalSamples += ts.TotalSamples
		if i == 0 || ts.MinSamples < stats.MinSamples {
			stats.MinSamples = ts.MinSamples
		}
		if ts.MaxSamples > stats.MaxSamples {
			stats.MaxSamples = ts.MaxSamples
		}
		varianceSum += ts.AverageVariance * float64(ts.TotalPixels)
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
		stats.AverageVariance = varianceSum / float64(stats.TotalPixels)
	}
	return stats
}
