package core

import "fmt"

// SamplingConfig contains rendering configuration shared by the renderer,
// the integrator and scene descriptions.
type SamplingConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Seed            int64 // Base seed for the sampler streams
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Seed:            42,
	}
}

// Validate reports the first invalid field, if any
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Merge overlays the non-zero fields of other onto c and returns the result
func (c SamplingConfig) Merge(other SamplingConfig) SamplingConfig {
	if other.Width > 0 {
		c.Width = other.Width
	}
	if other.Height > 0 {
		c.Height = other.Height
	}
	if other.SamplesPerPixel > 0 {
		c.SamplesPerPixel = other.SamplesPerPixel
	}
	if other.MaxDepth > 0 {
		c.MaxDepth = other.MaxDepth
	}
	if other.Seed != 0 {
		c.Seed = other.Seed
	}
	return c
}
