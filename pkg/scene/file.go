package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prism-rt/prism/pkg/core"
	"github.com/prism-rt/prism/pkg/geometry"
	"github.com/prism-rt/prism/pkg/material"
	"github.com/prism-rt/prism/pkg/renderer"
)

// vec3Spec is a three-component vector in a scene file
type vec3Spec [3]float64

func (v vec3Spec) vec() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

type cameraSpec struct {
	Center        vec3Spec `yaml:"center" json:"center"`
	LookAt        vec3Spec `yaml:"lookAt" json:"lookAt"`
	Up            vec3Spec `yaml:"up" json:"up"`
	VFov          float64  `yaml:"vfov" json:"vfov"`
	DefocusAngle  float64  `yaml:"defocusAngle" json:"defocusAngle"`
	FocusDistance float64  `yaml:"focusDistance" json:"focusDistance"`
}

type samplingSpec struct {
	Width           int   `yaml:"width" json:"width"`
	Height          int   `yaml:"height" json:"height"`
	SamplesPerPixel int   `yaml:"samplesPerPixel" json:"samplesPerPixel"`
	MaxDepth        int   `yaml:"maxDepth" json:"maxDepth"`
	Seed            int64 `yaml:"seed" json:"seed"`
}

// backgroundSpec uses pointers so an explicit black background can be
// told apart from an absent one
type backgroundSpec struct {
	Top    *vec3Spec `yaml:"top" json:"top"`
	Bottom *vec3Spec `yaml:"bottom" json:"bottom"`
}

type materialSpec struct {
	Type            string   `yaml:"type" json:"type"`
	Albedo          vec3Spec `yaml:"albedo" json:"albedo"`
	Fuzz            float64  `yaml:"fuzz" json:"fuzz"`
	RefractiveIndex float64  `yaml:"refractiveIndex" json:"refractiveIndex"`
	Emission        vec3Spec `yaml:"emission" json:"emission"`
}

type objectSpec struct {
	Type     string   `yaml:"type" json:"type"`
	Material string   `yaml:"material" json:"material"`
	Center   vec3Spec `yaml:"center" json:"center"`
	Radius   float64  `yaml:"radius" json:"radius"`
	Point    vec3Spec `yaml:"point" json:"point"`
	Normal   vec3Spec `yaml:"normal" json:"normal"`
	Corner   vec3Spec `yaml:"corner" json:"corner"`
	U        vec3Spec `yaml:"u" json:"u"`
	V        vec3Spec `yaml:"v" json:"v"`
	Size     vec3Spec `yaml:"size" json:"size"`         // box half extents
	Rotation vec3Spec `yaml:"rotation" json:"rotation"` // box Euler angles in degrees
}

type sceneFile struct {
	Name       string                  `yaml:"name" json:"name"`
	Camera     cameraSpec              `yaml:"camera" json:"camera"`
	Sampling   samplingSpec            `yaml:"sampling" json:"sampling"`
	Background backgroundSpec          `yaml:"background" json:"background"`
	Materials  map[string]materialSpec `yaml:"materials" json:"materials"`
	Objects    []objectSpec            `yaml:"objects" json:"objects"`
}

// LoadFile loads a scene from a YAML or JSON file, chosen by extension
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}

	var s *Scene
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		s, err = LoadYAML(data)
	case ".json":
		s, err = LoadJSON(data)
	default:
		return nil, fmt.Errorf("unsupported scene file extension %q (want .yaml, .yml, or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadYAML parses a YAML scene description
func LoadYAML(data []byte) (*Scene, error) {
	var sf sceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing YAML scene: %w", err)
	}
	return buildScene(sf)
}

// LoadJSON parses a JSON scene description
func LoadJSON(data []byte) (*Scene, error) {
	var sf sceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing JSON scene: %w", err)
	}
	return buildScene(sf)
}

func buildScene(sf sceneFile) (*Scene, error) {
	materials := make(map[string]core.Material, len(sf.Materials))
	for name, spec := range sf.Materials {
		mat, err := buildMaterial(spec)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	world := geometry.NewHittableList()
	for i, spec := range sf.Objects {
		obj, err := buildObject(spec, materials)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		world.Add(obj)
	}

	samplingConfig := core.DefaultSamplingConfig().Merge(core.SamplingConfig{
		Width:           sf.Sampling.Width,
		Height:          sf.Sampling.Height,
		SamplesPerPixel: sf.Sampling.SamplesPerPixel,
		MaxDepth:        sf.Sampling.MaxDepth,
		Seed:            sf.Sampling.Seed,
	})

	// Width and aspect ratio stay zero here so Preprocess derives them
	// from the sampling dimensions
	cameraBase := renderer.DefaultCameraConfig()
	cameraBase.Width = 0
	cameraBase.AspectRatio = 0
	cameraConfig := renderer.MergeCameraConfig(cameraBase, renderer.CameraConfig{
		Center:        sf.Camera.Center.vec(),
		LookAt:        sf.Camera.LookAt.vec(),
		Up:            sf.Camera.Up.vec(),
		VFov:          sf.Camera.VFov,
		DefocusAngle:  sf.Camera.DefocusAngle,
		FocusDistance: sf.Camera.FocusDistance,
	})

	topColor := core.NewColor(0.5, 0.7, 1.0)
	bottomColor := core.NewColor(1.0, 1.0, 1.0)
	if sf.Background.Top != nil {
		topColor = sf.Background.Top.vec()
	}
	if sf.Background.Bottom != nil {
		bottomColor = sf.Background.Bottom.vec()
	}

	return &Scene{
		Name:           sf.Name,
		World:          world,
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		TopColor:       topColor,
		BottomColor:    bottomColor,
	}, nil
}

func buildMaterial(spec materialSpec) (core.Material, error) {
	switch spec.Type {
	case "lambertian":
		return material.NewLambertian(spec.Albedo.vec()), nil
	case "metal":
		return material.NewMetal(spec.Albedo.vec(), spec.Fuzz), nil
	case "dielectric":
		if spec.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("dielectric requires a positive refractiveIndex, got %g", spec.RefractiveIndex)
		}
		return material.NewDielectric(spec.RefractiveIndex), nil
	case "emissive":
		return material.NewEmissive(spec.Emission.vec()), nil
	case "":
		return nil, fmt.Errorf("material type is required")
	default:
		return nil, fmt.Errorf("unknown material type %q (want lambertian, metal, dielectric, or emissive)", spec.Type)
	}
}

func buildObject(spec objectSpec, materials map[string]core.Material) (core.Hittable, error) {
	switch spec.Type {
	case "sphere", "plane", "quad", "disc", "box":
	case "":
		return nil, fmt.Errorf("object type is required")
	default:
		return nil, fmt.Errorf("unknown object type %q (want sphere, plane, quad, disc, or box)", spec.Type)
	}

	mat, ok := materials[spec.Material]
	if !ok {
		return nil, fmt.Errorf("%s references undefined material %q", spec.Type, spec.Material)
	}

	switch spec.Type {
	case "sphere":
		return geometry.NewSphere(spec.Center.vec(), spec.Radius, mat), nil
	case "plane":
		return geometry.NewPlane(spec.Point.vec(), spec.Normal.vec(), mat), nil
	case "quad":
		return geometry.NewQuad(spec.Corner.vec(), spec.U.vec(), spec.V.vec(), mat), nil
	case "box":
		rotation := spec.Rotation.vec().Multiply(math.Pi / 180)
		return geometry.NewBox(spec.Center.vec(), spec.Size.vec(), rotation, mat), nil
	default:
		return geometry.NewDisc(spec.Center.vec(), spec.Normal.vec(), spec.Radius, mat), nil
	}
}
