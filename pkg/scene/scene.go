// Package scene assembles worlds, cameras, and sampling parameters into
// renderable scenes, either from built-in constructors or scene files.
package scene

import (
	"fmt"

	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList
	CameraConfig   renderer.CameraConfig
	SamplingConfig core.SamplingConfig
	TopColor       core.Color // Background gradient at the zenith
	BottomColor    core.Color // Background gradient at the nadir

	camera *renderer.Camera // Built by Preprocess
}

// Preprocess validates the scene and builds the camera. It reconciles
// image dimensions: the sampling config seeds the camera width and
// aspect ratio where unset, and the camera's derived height is written
// back so both agree. Must be called before rendering.
func (s *Scene) Preprocess() error {
	if err := s.SamplingConfig.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}

	if s.CameraConfig.Width == 0 {
		s.CameraConfig.Width = s.SamplingConfig.Width
	}
	if s.CameraConfig.AspectRatio == 0 {
		s.CameraConfig.AspectRatio = float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height)
	}
	if err := s.CameraConfig.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}

	s.camera = renderer.NewCamera(s.CameraConfig)
	s.SamplingConfig.Width = s.camera.ImageWidth()
	s.SamplingConfig.Height = s.camera.ImageHeight()

	if s.World == nil {
		s.World = geometry.NewHittableList()
	}
	return nil
}

// GetCamera returns the camera built by Preprocess
func (s *Scene) GetCamera() *renderer.Camera {
	return s.camera
}

// GetWorld returns the scene geometry
func (s *Scene) GetWorld() core.Hittable {
	return s.World
}

// GetBackgroundColors returns the background gradient colors
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Color) {
	return s.TopColor, s.BottomColor
}

// GetSamplingConfig returns the sampling parameters
func (s *Scene) GetSamplingConfig() core.SamplingConfig {
	return s.SamplingConfig
}

// GetPrimitiveCount returns the number of objects in the world
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Count()
}

// NewGroundQuad creates a large horizontal quad centered at the given
// point with its normal pointing up, a bounded stand-in for an infinite
// ground plane
func NewGroundQuad(center core.Point, size float64, mat core.Material) *geometry.Quad {
	corner := core.NewPoint(center.X-size/2, center.Y, center.Z-size/2)
	// u x v = (0,0,size) x (size,0,0) points along +Y
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}
