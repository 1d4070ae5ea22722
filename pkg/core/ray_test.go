package core

import (
	"testing"
)

func TestRay_At(t *testing.T) {
	tests := []struct {
		name     string
		ray      Ray
		at       float64
		expected Point
	}{
		{
			name:     "Zero parameter returns origin",
			ray:      NewRay(NewPoint(1, 2, 3), NewVec3(0, 0, -1)),
			at:       0,
			expected: NewPoint(1, 2, 3),
		},
		{
			name:     "Unit step along direction",
			ray:      NewRay(NewPoint(0, 0, 0), NewVec3(0, 0, -1)),
			at:       1,
			expected: NewPoint(0, 0, -1),
		},
		{
			name:     "Negative parameter steps backward",
			ray:      NewRay(NewPoint(0, 0, 0), NewVec3(1, 2, 3)),
			at:       -2,
			expected: NewPoint(-2, -4, -6),
		},
		{
			name:     "Direction need not be unit length",
			ray:      NewRay(NewPoint(1, 0, 0), NewVec3(2, 0, 0)),
			at:       1.5,
			expected: NewPoint(4, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.ray.At(tt.at)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}
