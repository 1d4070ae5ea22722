package material

import (
	"github.com/prism-rt/prism/pkg/core"
)

// Emissive represents a light-emitting material. It absorbs every incoming
// ray and contributes its emission directly.
type Emissive struct {
	Emission core.Color // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Color) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter implements the Material interface. Emissive materials never
// scatter; the path ends here.
func (e *Emissive) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// Emit implements the Emitter interface
func (e *Emissive) Emit(hit core.HitRecord) core.Color {
	return e.Emission
}
