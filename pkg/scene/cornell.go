package scene

import (
	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/material"
	"github.com/prism-rt/prism/pkg/renderer"
)

// NewCornellScene creates a Cornell box: the standard 555-unit cube with
// red and green side walls, a ceiling lamp, and a glass and a diffuse
// sphere inside. The only light is the lamp, so the background is black.
func NewCornellScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewPoint(278, 278, -800),
		LookAt:        core.NewPoint(278, 278, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   1.0,
		VFov:          40.0,
		DefocusAngle:  0,
		FocusDistance: 10.0,
	}
	cameraConfig := mergeOverrides(defaultCameraConfig, cameraOverrides)

	red := material.NewLambertian(core.NewColor(0.65, 0.05, 0.05))
	white := material.NewLambertian(core.NewColor(0.73, 0.73, 0.73))
	green := material.NewLambertian(core.NewColor(0.12, 0.45, 0.15))
	light := material.NewEmissive(core.NewColor(15, 15, 15))

	world := geometry.NewHittableList(
		// Green right wall, red left wall
		geometry.NewQuad(core.NewPoint(555, 0, 0), core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), green),
		geometry.NewQuad(core.NewPoint(0, 0, 0), core.NewVec3(0, 555, 0), core.NewVec3(0, 0, 555), red),
		// Ceiling lamp
		geometry.NewQuad(core.NewPoint(343, 554, 332), core.NewVec3(-130, 0, 0), core.NewVec3(0, 0, -105), light),
		// Floor, ceiling, back wall
		geometry.NewQuad(core.NewPoint(0, 0, 0), core.NewVec3(555, 0, 0), core.NewVec3(0, 0, 555), white),
		geometry.NewQuad(core.NewPoint(555, 555, 555), core.NewVec3(-555, 0, 0), core.NewVec3(0, 0, -555), white),
		geometry.NewQuad(core.NewPoint(0, 0, 555), core.NewVec3(555, 0, 0), core.NewVec3(0, 555, 0), white),
		// A glass sphere up front and a diffuse one in the back corner
		geometry.NewSphere(core.NewPoint(190, 90, 190), 90, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewPoint(370, 120, 377), 120, white),
	)

	samplingConfig := core.SamplingConfig{
		Width:           400,
		Height:          400,
		SamplesPerPixel: 200,
		MaxDepth:        50,
		Seed:            42,
	}

	return &Scene{
		Name:           "cornell",
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		TopColor:       core.NewColor(0, 0, 0),
		BottomColor:    core.NewColor(0, 0, 0),
	}
}
