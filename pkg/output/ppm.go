// Package output writes rendered framebuffers to image files.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/prism-rt/prism/pkg/renderer"
)

// WritePPMText writes the framebuffer as plain-text PPM (P3): an ASCII
// header followed by one "r g b" triplet per pixel, row-major from the
// top-left, gamma 2 encoded
func WritePPMText(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.RGBA8At(x, y)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WritePPMBinary writes the framebuffer as binary PPM (P6): the same
// header followed by raw RGB bytes
func WritePPMBinary(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}
	row := make([]byte, 3*fb.Width)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.RGBA8At(x, y)
			row[3*x], row[3*x+1], row[3*x+2] = r, g, b
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}
