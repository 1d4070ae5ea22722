package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/prism-rt/prism/pkg/renderer"
)

// WritePNG writes the framebuffer as an 8-bit PNG
func WritePNG(w io.Writer, fb *renderer.Framebuffer) error {
	return png.Encode(w, fb.ToImage())
}

// SavePNG writes an already assembled image to a PNG file. Progressive
// passes hand out *image.RGBA directly, bypassing the framebuffer.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
