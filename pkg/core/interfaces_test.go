package core

import (
	"testing"
)

func TestHitRecord_SetFaceNormal(t *testing.T) {
	tests := []struct {
		name           string
		rayDirection   Vec3
		outwardNormal  Vec3
		expectedFront  bool
		expectedNormal Vec3
	}{
		{
			name:           "Ray from outside keeps outward normal",
			rayDirection:   NewVec3(0, 0, -1),
			outwardNormal:  NewVec3(0, 0, 1),
			expectedFront:  true,
			expectedNormal: NewVec3(0, 0, 1),
		},
		{
			name:           "Ray from inside flips normal",
			rayDirection:   NewVec3(0, 0, 1),
			outwardNormal:  NewVec3(0, 0, 1),
			expectedFront:  false,
			expectedNormal: NewVec3(0, 0, -1),
		},
		{
			name:           "Grazing ray counts as back face",
			rayDirection:   NewVec3(1, 0, 0),
			outwardNormal:  NewVec3(0, 1, 0),
			expectedFront:  false,
			expectedNormal: NewVec3(0, -1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := NewRay(NewPoint(0, 0, 0), tt.rayDirection)

			var rec HitRecord
			rec.SetFaceNormal(ray, tt.outwardNormal)

			if rec.FrontFace != tt.expectedFront {
				t.Errorf("FrontFace: got %v, expected %v", rec.FrontFace, tt.expectedFront)
			}
			if rec.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Normal: got %v, expected %v", rec.Normal, tt.expectedNormal)
			}
		})
	}
}
