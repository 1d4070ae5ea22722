package scene

import (
	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/material"
	"github.com/prism-rt/prism/pkg/renderer"
)

// NewCoverScene creates the classic cover image: hundreds of small
// randomized spheres around three large ones. The sphere field is drawn
// from a fixed seed so the generated world is identical on every run,
// independent of the render seed.
func NewCoverScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewPoint(13, 2, 3),
		LookAt:        core.NewPoint(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		DefocusAngle:  0.6,
		FocusDistance: 10.0,
	}
	cameraConfig := mergeOverrides(defaultCameraConfig, cameraOverrides)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewPoint(0, -1000, 0), 1000, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))),
	)

	sampler := core.NewSeededSampler(42)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			offset := sampler.Get2D()
			center := core.NewPoint(float64(a)+0.9*offset.X, 0.2, float64(b)+0.9*offset.Y)
			if center.Subtract(core.NewPoint(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			choice := sampler.Get1D()
			var mat core.Material
			switch {
			case choice < 0.8:
				albedo := core.RandomVec3(sampler).MultiplyVec(core.RandomVec3(sampler))
				mat = material.NewLambertian(albedo)
			case choice < 0.95:
				albedo := core.RandomVec3Range(sampler, 0.5, 1)
				fuzz := 0.5 * sampler.Get1D()
				mat = material.NewMetal(albedo, fuzz)
			default:
				mat = material.NewDielectric(1.5)
			}
			world.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	world.Add(
		geometry.NewSphere(core.NewPoint(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewPoint(-4, 1, 0), 1.0, material.NewLambertian(core.NewColor(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewPoint(4, 1, 0), 1.0, material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0)),
	)

	return &Scene{
		Name:           "cover",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: core.DefaultSamplingConfig(),
		TopColor:       core.NewColor(0.5, 0.7, 1.0),
		BottomColor:    core.NewColor(1.0, 1.0, 1.0),
	}
}
