package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/prism-rt/prism/pkg/core"
)

// Framebuffer holds linear radiance values for a rendered image, row-major
// from the top-left pixel
type Framebuffer struct {
	Width  int
	Height int
	pixels []core.Color
}

// NewFramebuffer allocates a black framebuffer of the given dimensions
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		pixels: make([]core.Color, width*height),
	}
}

// Set stores the linear color of pixel (x, y)
func (f *Framebuffer) Set(x, y int, c core.Color) {
	f.pixels[y*f.Width+x] = c
}

// At returns the linear color of pixel (x, y)
func (f *Framebuffer) At(x, y int) core.Color {
	return f.pixels[y*f.Width+x]
}

// RGBA8At returns pixel (x, y) as display bytes, gamma 2 encoded
func (f *Framebuffer) RGBA8At(x, y int) (r, g, b uint8) {
	c := colorToRGBA(f.At(x, y))
	return c.R, c.G, c.B
}

// ToImage converts the framebuffer to an 8-bit RGBA image
func (f *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, colorToRGBA(f.At(x, y)))
		}
	}
	return img
}

// Display bytes saturate just below 1.0 so a component of exactly 1 maps to 255
var intensityRange = core.NewInterval(0.000, 0.999)

func linearToGamma(component float64) float64 {
	if component > 0 {
		return math.Sqrt(component)
	}
	return 0
}

// colorToRGBA converts linear radiance to 8-bit display color with gamma 2
func colorToRGBA(c core.Color) color.RGBA {
	return color.RGBA{
		R: uint8(256 * intensityRange.Clamp(linearToGamma(c.X))),
		G: uint8(256 * intensityRange.Clamp(linearToGamma(c.Y))),
		B: uint8(256 * intensityRange.Clamp(linearToGamma(c.Z))),
		A: 255,
	}
}
