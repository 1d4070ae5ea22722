package scene

import (
	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/material"
	"github.com/prism-rt/prism/pkg/renderer"
)

// NewGlassScene creates a glass showcase: solid and hollow glass spheres
// between two metal ones on a ground quad, lit by a large off-screen
// sphere lamp in addition to the sky
func NewGlassScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewPoint(0, 0.75, 2),
		LookAt:        core.NewPoint(0, 0.5, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		DefocusAngle:  2.0,
		FocusDistance: 3.0,
	}
	cameraConfig := mergeOverrides(defaultCameraConfig, cameraOverrides)

	lambertianGreen := material.NewLambertian(core.NewColor(0.48, 0.48, 0.0))
	lambertianBlue := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	metalSilver := material.NewMetal(core.NewColor(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3)
	materialGlass := material.NewDielectric(1.5)
	materialBubble := material.NewDielectric(1.0 / 1.5)

	world := geometry.NewHittableList(
		NewGroundQuad(core.NewPoint(0, 0, 0), 10000.0, lambertianGreen),
		geometry.NewSphere(core.NewPoint(0, 0.5, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewPoint(-1, 0.5, -1), 0.5, metalSilver),
		geometry.NewSphere(core.NewPoint(1, 0.5, -1), 0.5, metalGold),
		geometry.NewSphere(core.NewPoint(0.5, 0.25, -0.5), 0.25, materialGlass),
	)

	// Hollow glass sphere with a small diffuse core
	world.Add(
		geometry.NewSphere(core.NewPoint(-0.5, 0.25, -0.5), 0.25, materialGlass),
		geometry.NewSphere(core.NewPoint(-0.5, 0.25, -0.5), 0.24, materialBubble),
		geometry.NewSphere(core.NewPoint(-0.5, 0.25, -0.5), 0.20, lambertianBlue),
	)

	// Large sphere lamp far up and to the right
	world.Add(geometry.NewSphere(core.NewPoint(30, 30.5, 15), 10, material.NewEmissive(core.NewColor(15.0, 14.0, 13.0))))

	samplingConfig := core.DefaultSamplingConfig()
	samplingConfig.SamplesPerPixel = 200

	return &Scene{
		Name:           "glass",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		TopColor:       core.NewColor(0.5, 0.7, 1.0),
		BottomColor:    core.NewColor(1.0, 1.0, 1.0),
	}
}
