package material

import (
	"math/rand"
	"testing"

	"github.com/prism-rt/prism/pkg/core"
)

func TestEmissiveNeverScatters(t *testing.T) {
	light := NewEmissive(core.NewColor(5, 5, 5))

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := testHit(core.NewVec3(0, 1, 0), true, light)

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	if _, scattered := light.Scatter(ray, hit, sampler); scattered {
		t.Error("Emissive material should absorb, not scatter")
	}
}

func TestEmissiveEmit(t *testing.T) {
	emission := core.NewColor(5, 4, 3)
	light := NewEmissive(emission)

	hit := testHit(core.NewVec3(0, 1, 0), true, light)
	if got := light.Emit(hit); got != emission {
		t.Errorf("Expected emission %v, got %v", emission, got)
	}

	// Emissive is discoverable through the Emitter interface; plain
	// scattering materials are not
	var mat core.Material = light
	if _, ok := mat.(core.Emitter); !ok {
		t.Error("Emissive should implement core.Emitter")
	}

	var diffuse core.Material = NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	if _, ok := diffuse.(core.Emitter); ok {
		t.Error("Lambertian should not implement core.Emitter")
	}
}
