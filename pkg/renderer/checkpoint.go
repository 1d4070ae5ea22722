package renderer

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
)

const checkpointVersion = 1

// checkpointState is the serialized form of a progressive render between
// passes
type checkpointState struct {
	Version            int              `cbor:"version"`
	Fingerprint        uint64           `cbor:"fingerprint"`
	Width              int              `cbor:"width"`
	Height             int              `cbor:"height"`
	TileSize           int              `cbor:"tileSize"`
	CompletedPasses    int              `cbor:"completedPasses"`
	AccumulatedSamples int              `cbor:"accumulatedSamples"`
	Tiles              []tileCheckpoint `cbor:"tiles"`
}

type tileCheckpoint struct {
	ID     int          `cbor:"id"`
	Pixels []PixelStats `cbor:"pixels"`
}

// fingerprint hashes everything that determines what the accumulators
// mean: camera geometry, sampling parameters, and the tile layout
func (pr *ProgressiveRaytracer) fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%#v|%#v|%d", pr.scene.GetCamera().config, pr.scene.GetSamplingConfig(), pr.config.TileSize)
	return h.Sum64()
}

// SaveCheckpoint writes the accumulated pixel state so a later process
// can resume the render. Call only between passes, never while a pass is
// in flight.
func (pr *ProgressiveRaytracer) SaveCheckpoint(w io.Writer) error {
	state := checkpointState{
		Version:            checkpointVersion,
		Fingerprint:        pr.fingerprint(),
		Width:              pr.width,
		Height:             pr.height,
		TileSize:           pr.config.TileSize,
		CompletedPasses:    pr.completedPasses,
		AccumulatedSamples: pr.accumulatedSamples,
		Tiles:              make([]tileCheckpoint, len(pr.tiles)),
	}
	for i, tile := range pr.tiles {
		state.Tiles[i] = tileCheckpoint{ID: tile.ID, Pixels: tile.Pixels}
	}
	if err := cbor.NewEncoder(w).Encode(state); err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint restores state saved by SaveCheckpoint. The checkpoint
// must come from an identically configured render; a fingerprint
// mismatch is refused rather than blended into the wrong image. Tile
// samplers restart at a pass-dependent seed so resumed passes do not
// repeat samples already folded into the accumulators.
func (pr *ProgressiveRaytracer) LoadCheckpoint(r io.Reader) error {
	var state checkpointState
	if err := cbor.NewDecoder(r).Decode(&state); err != nil {
		return fmt.Errorf("decoding checkpoint: %w", err)
	}
	if state.Version != checkpointVersion {
		return fmt.Errorf("unsupported checkpoint version %d", state.Version)
	}
	if got, want := state.Fingerprint, pr.fingerprint(); got != want {
		return fmt.Errorf("checkpoint fingerprint %016x does not match scene fingerprint %016x", got, want)
	}
	if state.Width != pr.width || state.Height != pr.height {
		return fmt.Errorf("checkpoint is %dx%d, scene renders %dx%d",
			state.Width, state.Height, pr.width, pr.height)
	}
	if len(state.Tiles) != len(pr.tiles) {
		return fmt.Errorf("checkpoint has %d tiles, expected %d", len(state.Tiles), len(pr.tiles))
	}

	for i, tc := range state.Tiles {
		tile := pr.tiles[i]
		if tc.ID != tile.ID {
			return fmt.Errorf("checkpoint tile %d has ID %d, expected %d", i, tc.ID, tile.ID)
		}
		if len(tc.Pixels) != len(tile.Pixels) {
			return fmt.Errorf("checkpoint tile %d has %d pixels, expected %d",
				tc.ID, len(tc.Pixels), len(tile.Pixels))
		}
	}

	// Validation passed, now mutate
	for i, tc := range state.Tiles {
		pr.tiles[i].Pixels = tc.Pixels
		pr.tiles[i].reseedAfterPass(state.CompletedPasses)
	}
	pr.completedPasses = state.CompletedPasses
	pr.accumulatedSamples = state.AccumulatedSamples
	return nil
}
