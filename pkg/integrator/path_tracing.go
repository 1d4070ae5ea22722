package integrator

import (
	"math"

	"github.com/prism-rt/prism/pkg/core"
)

// PathTracer implements unidirectional path tracing. Paths are walked
// iteratively: each bounce multiplies a throughput color by the material
// attenuation, and light found along the way (emission, or the sky on
// escape) is weighted by the throughput accumulated so far.
type PathTracer struct {
	maxDepth int
}

// NewPathTracer creates a path tracer with the given bounce budget
func NewPathTracer(maxDepth int) *PathTracer {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &PathTracer{maxDepth: maxDepth}
}

// RayColor computes the color for a single ray. A path ends in one of three
// ways: escaping into the background gradient, being absorbed by a material,
// or exhausting the bounce budget. The last two contribute no further light.
func (pt *PathTracer) RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Color {
	world := scene.GetWorld()

	result := core.NewColor(0, 0, 0)
	throughput := core.NewColor(1, 1, 1)
	current := ray

	for bounce := 0; bounce < pt.maxDepth; bounce++ {
		// tMin of 0.001 skips self-intersections at the bounce origin
		hit, isHit := world.Hit(current, core.NewInterval(0.001, math.Inf(1)))
		if !isHit {
			background := pt.backgroundGradient(current, scene)
			return result.Add(throughput.MultiplyVec(background))
		}

		result = result.Add(throughput.MultiplyVec(emittedLight(hit)))

		scatter, didScatter := hit.Material.Scatter(current, *hit, sampler)
		if !didScatter {
			return result
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		current = scatter.Scattered
	}

	// Bounce budget exhausted; no more light is gathered
	return result
}

// emittedLight returns the emitted light from a material if it's emissive
func emittedLight(hit *core.HitRecord) core.Color {
	if emitter, isEmissive := hit.Material.(core.Emitter); isEmissive {
		return emitter.Emit(*hit)
	}
	return core.NewColor(0, 0, 0)
}

// backgroundGradient returns a vertical gradient color based on ray direction
func (pt *PathTracer) backgroundGradient(r core.Ray, scene Scene) core.Color {
	topColor, bottomColor := scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Map the y-component from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return bottomColor.Lerp(topColor, t)
}
