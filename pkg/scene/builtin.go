package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/renderer"
)

// Builder creates a built-in scene, optionally overriding the camera
type Builder func(cameraOverrides ...renderer.CameraConfig) *Scene

var builtins = map[string]Builder{
	"default": NewDefaultScene,
	"cover":   NewCoverScene,
	"glass":   NewGlassScene,
	"cornell": NewCornellScene,
	"empty":   NewEmptyScene,
}

// BuiltinNames returns the names of the built-in scenes, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltin builds a built-in scene by name
func NewBuiltin(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	builder, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return builder(cameraOverrides...), nil
}

func mergeOverrides(base renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(base, overrides[0])
	}
	return base
}

// NewEmptyScene creates a scene with nothing but the sky gradient,
// useful for camera and background tests
func NewEmptyScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := mergeOverrides(renderer.DefaultCameraConfig(), cameraOverrides)

	samplingConfig := core.DefaultSamplingConfig()
	samplingConfig.SamplesPerPixel = 16
	samplingConfig.MaxDepth = 10

	return &Scene{
		Name:           "empty",
		World:          geometry.NewHittableList(),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		TopColor:       core.NewColor(0.5, 0.7, 1.0),
		BottomColor:    core.NewColor(1.0, 1.0, 1.0),
	}
}
