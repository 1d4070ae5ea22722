package geometry

import (
	"github.com/prism-rt/prism/pkg/core"
)

// HittableList aggregates shapes and reports the nearest intersection among
// them. The scan is linear; scenes here are small enough that no acceleration
// structure is needed.
type HittableList struct {
	Objects []core.Hittable
}

// NewHittableList creates an empty list
func NewHittableList(objects ...core.Hittable) *HittableList {
	return &HittableList{Objects: objects}
}

// Add appends an object to the list
func (l *HittableList) Add(objects ...core.Hittable) {
	l.Objects = append(l.Objects, objects...)
}

// Clear removes all objects from the list
func (l *HittableList) Clear() {
	l.Objects = nil
}

// Count returns the number of objects in the list
func (l *HittableList) Count() int {
	return len(l.Objects)
}

// Hit returns the nearest intersection within tRange across all objects.
// Each accepted hit narrows the search range, so later objects only win if
// they are strictly closer.
func (l *HittableList) Hit(ray core.Ray, tRange core.Interval) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	closestSoFar := tRange.Max

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, core.NewInterval(tRange.Min, closestSoFar)); isHit {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}
