package geometry

import (
	"math"
	"testing"

	"github.com/prism-rt/prism/pkg/core"
)

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := list.Hit(ray, core.NewInterval(0.001, 1000.0)); isHit {
		t.Error("Expected miss from empty list")
	}
}

func TestHittableList_NearestHit(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, DummyMaterial{})
	far := NewSphere(core.NewVec3(0, 0, -5), 0.5, DummyMaterial{})
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// The nearest hit wins regardless of insertion order
	orders := map[string][]core.Hittable{
		"near first": {near, far},
		"far first":  {far, near},
	}

	for name, objects := range orders {
		t.Run(name, func(t *testing.T) {
			list := NewHittableList(objects...)

			hit, isHit := list.Hit(ray, core.NewInterval(0.001, 1000.0))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-1.5) > 1e-9 {
				t.Errorf("Expected nearest hit at t=1.5, got t=%f", hit.T)
			}
		})
	}
}

func TestHittableList_RangeExcludesNearObject(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, DummyMaterial{})
	far := NewSphere(core.NewVec3(0, 0, -5), 0.5, DummyMaterial{})
	list := NewHittableList(near, far)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// A range starting beyond the near sphere reaches the far one
	hit, isHit := list.Hit(ray, core.NewInterval(3.0, 1000.0))
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-4.5) > 1e-9 {
		t.Errorf("Expected far sphere hit at t=4.5, got t=%f", hit.T)
	}
}

func TestHittableList_AddAndClear(t *testing.T) {
	list := NewHittableList()
	if list.Count() != 0 {
		t.Errorf("Expected empty list, got %d objects", list.Count())
	}

	list.Add(NewSphere(core.NewVec3(0, 0, -2), 0.5, DummyMaterial{}))
	if list.Count() != 1 {
		t.Errorf("Expected 1 object after Add, got %d", list.Count())
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, isHit := list.Hit(ray, core.NewInterval(0.001, 1000.0)); !isHit {
		t.Fatal("Expected hit after Add, but got miss")
	}

	list.Clear()
	if list.Count() != 0 {
		t.Errorf("Expected empty list after Clear, got %d objects", list.Count())
	}
	if _, isHit := list.Hit(ray, core.NewInterval(0.001, 1000.0)); isHit {
		t.Error("Expected miss after Clear, but got hit")
	}
}
