package geometry

import (
	"math"

	"github.com/prism-rt/prism/pkg/core"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center   core.Point    // Center of the disc
	Normal   core.Vec3     // Normal vector (normalized at construction)
	Radius   float64       // Radius of the disc
	Material core.Material // Material of the disc
}

// NewDisc creates a new disc
func NewDisc(center core.Point, normal core.Vec3, radius float64, material core.Material) *Disc {
	return &Disc{
		Center:   center,
		Normal:   normal.Normalize(),
		Radius:   math.Max(0, radius),
		Material: material,
	}
}

// Hit tests if a ray intersects with the disc
func (d *Disc) Hit(ray core.Ray, tRange core.Interval) (*core.HitRecord, bool) {
	denominator := d.Normal.Dot(ray.Direction)

	// Ray parallel to the disc's plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denominator
	if !tRange.Surrounds(t) {
		return nil, false
	}

	// Reject plane hits outside the disc radius
	hitPoint := ray.At(t)
	centerToHit := hitPoint.Subtract(d.Center)
	if centerToHit.LengthSquared() > d.Radius*d.Radius {
		return nil, false
	}

	hitRecord := &core.HitRecord{
		T:        t,
		Point:    hitPoint,
		Material: d.Material,
	}
	hitRecord.SetFaceNormal(ray, d.Normal)

	return hitRecord, true
}
