package integrator

import (
	"github.com/prism-rt/prism/pkg/core"
)

// Scene provides the integrator's view of a scene.
// Kept minimal so renderer and scene packages can both satisfy it.
type Scene interface {
	GetWorld() core.Hittable
	GetBackgroundColors() (topColor, bottomColor core.Color)
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Color
}
