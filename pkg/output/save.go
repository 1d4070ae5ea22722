package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prism-rt/prism/pkg/renderer"
)

// Format identifies an output encoding
type Format string

const (
	FormatPNG       Format = "png"
	FormatPPM       Format = "ppm"
	FormatPPMBinary Format = "ppm-binary"
)

// DetectFormat picks a format from the file extension, defaulting to PNG
func DetectFormat(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".ppm" {
		return FormatPPM
	}
	return FormatPNG
}

// Write encodes the framebuffer in the given format
func Write(w io.Writer, fb *renderer.Framebuffer, format Format) error {
	switch format {
	case FormatPNG:
		return WritePNG(w, fb)
	case FormatPPM:
		return WritePPMText(w, fb)
	case FormatPPMBinary:
		return WritePPMBinary(w, fb)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Save writes the framebuffer to a file in the given format
func Save(path string, fb *renderer.Framebuffer, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, fb, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
