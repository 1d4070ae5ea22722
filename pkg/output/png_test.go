package output

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, testFramebuffer()))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)

	bounds := decoded.Bounds()
	assert.Equal(t, 2, bounds.Dx())
	assert.Equal(t, 2, bounds.Dy())

	r, g, b, _ := decoded.At(0, 0).RGBA()
	assert.Equal(t, uint8(255), uint8(r>>8))
	assert.Equal(t, uint8(0), uint8(g>>8))
	assert.Equal(t, uint8(0), uint8(b>>8))

	r, g, b, _ = decoded.At(1, 1).RGBA()
	assert.Equal(t, uint8(128), uint8(r>>8))
	assert.Equal(t, uint8(128), uint8(g>>8))
	assert.Equal(t, uint8(128), uint8(b>>8))
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.png")
	require.NoError(t, SavePNG(path, testFramebuffer().ToImage()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, decoded.Bounds().Dx())
}
