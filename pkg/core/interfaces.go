package core

// HitRecord captures everything the shading code needs to know about a
// ray-surface intersection.
type HitRecord struct {
	Point     Point    // intersection point
	Normal    Vec3     // unit normal, oriented against the incoming ray
	T         float64  // ray parameter at the intersection
	FrontFace bool     // true when the ray arrived from outside the surface
	Material  Material // material at the intersection
}

// SetFaceNormal orients the stored normal against the incoming ray.
// outwardNormal must be unit length and point away from the surface interior.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// ScatterResult contains the outgoing ray and throughput scaling produced by
// a material scatter event.
type ScatterResult struct {
	Scattered   Ray   // continuation ray, origin at the hit point
	Attenuation Color // per-channel reflectance applied to the throughput
}

// Material decides how a surface responds to an incoming ray. Scatter returns
// false when the ray is absorbed. Implementations hold only immutable
// parameters; all randomness comes from the sampler, so materials are safe to
// share across goroutines.
type Material interface {
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// Emitter is implemented by materials that add light of their own.
// Shading code type-asserts for it.
type Emitter interface {
	Emit(hit HitRecord) Color
}

// Hittable is anything a ray can intersect. Hit returns the nearest
// intersection with ray parameter strictly inside tRange, or false when
// there is none.
type Hittable interface {
	Hit(ray Ray, tRange Interval) (*HitRecord, bool)
}

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}
