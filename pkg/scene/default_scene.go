package scene

import (
	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/material"
	"github.com/prism-rt/prism/pkg/renderer"
)

// NewDefaultScene creates the four-sphere showcase: a diffuse sphere
// flanked by a hollow glass sphere and a fuzzy metal one, resting on a
// huge ground sphere, seen from an angle with depth of field
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewPoint(-2, 2, 1),
		LookAt:        core.NewPoint(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		DefocusAngle:  10.0,
		FocusDistance: 3.4,
	}
	cameraConfig := mergeOverrides(defaultCameraConfig, cameraOverrides)

	materialGround := material.NewLambertian(core.NewColor(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.5)
	// An air-filled bubble inside the glass sphere makes it a hollow shell
	materialBubble := material.NewDielectric(1.0 / 1.5)
	materialGold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 1.0)

	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewPoint(0, -100.5, -1), 100, materialGround),
		geometry.NewSphere(core.NewPoint(0, 0, -1.2), 0.5, materialCenter),
		geometry.NewSphere(core.NewPoint(-1, 0, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewPoint(-1, 0, -1), 0.4, materialBubble),
		geometry.NewSphere(core.NewPoint(1, 0, -1), 0.5, materialGold),
	)

	return &Scene{
		Name:           "default",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: core.DefaultSamplingConfig(),
		TopColor:       core.NewColor(0.5, 0.7, 1.0),
		BottomColor:    core.NewColor(1.0, 1.0, 1.0),
	}
}
