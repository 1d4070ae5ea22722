package geometry

import (
	"github.com/prism-rt/prism/pkg/core"
)

// Box is a rectangular solid assembled from six quads. Size holds half
// extents per axis, so a size of (1,1,1) spans a 2x2x2 box. Rotation is
// Euler angles in radians, applied X then Y then Z around the center.
type Box struct {
	Center   core.Point
	Size     core.Vec3
	Rotation core.Vec3
	Material core.Material
	faces    [6]*Quad
}

// NewBox creates a box centered at the given point
func NewBox(center core.Point, size, rotation core.Vec3, material core.Material) *Box {
	b := &Box{
		Center:   center,
		Size:     size,
		Rotation: rotation,
		Material: material,
	}
	b.generateFaces()
	return b
}

// NewAxisAlignedBox creates a box with no rotation
func NewAxisAlignedBox(center core.Point, size core.Vec3, material core.Material) *Box {
	return NewBox(center, size, core.NewVec3(0, 0, 0), material)
}

// generateFaces builds the six quads from the transformed corners. Edge
// vectors are chosen so every u x v normal points out of the box.
func (b *Box) generateFaces() {
	corners := [8]core.Vec3{
		core.NewVec3(-1, -1, -1), // 0: left-bottom-back
		core.NewVec3(1, -1, -1),  // 1: right-bottom-back
		core.NewVec3(1, 1, -1),   // 2: right-top-back
		core.NewVec3(-1, 1, -1),  // 3: left-top-back
		core.NewVec3(-1, -1, 1),  // 4: left-bottom-front
		core.NewVec3(1, -1, 1),   // 5: right-bottom-front
		core.NewVec3(1, 1, 1),    // 6: right-top-front
		core.NewVec3(-1, 1, 1),   // 7: left-top-front
	}
	for i := range corners {
		scaled := core.NewVec3(corners[i].X*b.Size.X, corners[i].Y*b.Size.Y, corners[i].Z*b.Size.Z)
		corners[i] = scaled.Rotate(b.Rotation).Add(b.Center)
	}

	edge := func(from, to int) core.Vec3 { return corners[to].Subtract(corners[from]) }

	b.faces[0] = NewQuad(corners[4], edge(4, 5), edge(4, 7), b.Material) // front  (z+)
	b.faces[1] = NewQuad(corners[1], edge(1, 0), edge(1, 2), b.Material) // back   (z-)
	b.faces[2] = NewQuad(corners[5], edge(5, 1), edge(5, 6), b.Material) // right  (x+)
	b.faces[3] = NewQuad(corners[0], edge(0, 4), edge(0, 3), b.Material) // left   (x-)
	b.faces[4] = NewQuad(corners[3], edge(3, 7), edge(3, 2), b.Material) // top    (y+)
	b.faces[5] = NewQuad(corners[4], edge(4, 0), edge(4, 5), b.Material) // bottom (y-)
}

// Hit returns the nearest face intersection within tRange. Each accepted
// hit narrows the range like HittableList does.
func (b *Box) Hit(ray core.Ray, tRange core.Interval) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	closestSoFar := tRange.Max

	for _, face := range b.faces {
		if hit, isHit := face.Hit(ray, core.NewInterval(tRange.Min, closestSoFar)); isHit {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}
