package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSampler_Ranges(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		v := sampler.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Get1D out of [0,1): %f", v)
		}

		p := sampler.Get2D()
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
			t.Fatalf("Get2D out of [0,1): %v", p)
		}
	}
}

func TestSampler_SameSeedSameStream(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)

	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatalf("Samplers with the same seed diverged at sample %d", i)
		}
	}
}

func TestRandomVec3Range(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 1000; i++ {
		v := RandomVec3Range(sampler, -2, 3)
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if c < -2 || c >= 3 {
				t.Fatalf("Component out of [-2,3): %f", c)
			}
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(42)

	sum := NewVec3(0, 0, 0)
	const n = 5000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit length, got %f", v.Length())
		}
		sum = sum.Add(v)
	}

	// Uniform directions average out near zero
	mean := sum.Divide(n)
	if mean.Length() > 0.05 {
		t.Errorf("Directions look biased: mean %v", mean)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 5000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample left the z=0 plane: %v", p)
		}
		if p.LengthSquared() > 1 {
			t.Fatalf("Disk sample outside unit radius: %v", p)
		}
	}
}

func TestRandomOnHemisphere(t *testing.T) {
	sampler := NewSeededSampler(42)

	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 2, 3).Normalize(),
	}

	for _, normal := range normals {
		for i := 0; i < 1000; i++ {
			v := RandomOnHemisphere(sampler, normal)
			if math.Abs(v.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit length, got %f", v.Length())
			}
			if v.Dot(normal) < 0 {
				t.Fatalf("Sample in wrong hemisphere: %v against normal %v", v, normal)
			}
		}
	}
}
