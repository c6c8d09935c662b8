package lights

import (
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func TestPointLight_Feeler(t *testing.T) {
	tests := []struct {
		name         string
		lightPos     core.Vec3
		point        core.Vec3
		expectedDir  core.Vec3
		expectedDist float64
	}{
		{
			name:         "straight up",
			lightPos:     core.NewVec3(0, 5, 0),
			point:        core.NewVec3(0, 0, 0),
			expectedDir:  core.NewVec3(0, 1, 0),
			expectedDist: 5,
		},
		{
			name:         "3-4-5 triangle",
			lightPos:     core.NewVec3(3, 0, 4),
			point:        core.NewVec3(0, 0, 0),
			expectedDir:  core.NewVec3(0.6, 0, 0.8),
			expectedDist: 5,
		},
		{
			name:         "offset surface point",
			lightPos:     core.NewVec3(1, 1, 1),
			point:        core.NewVec3(1, 1, -1),
			expectedDir:  core.NewVec3(0, 0, 1),
			expectedDist: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light := NewPointLight(tt.lightPos, core.White)
			dir, dist := light.Feeler(tt.point)

			if dir.Subtract(tt.expectedDir).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expectedDir, dir)
			}
			if math.Abs(dist-tt.expectedDist) > 1e-9 {
				t.Errorf("Expected distance %f, got %f", tt.expectedDist, dist)
			}
		})
	}
}

func TestPointLight_Translate(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 5, 0), core.White)
	moved := light.Translate(core.NewVec3(1, 0, -2))

	if moved.Position != core.NewVec3(1, 5, -2) {
		t.Errorf("Expected translated position (1,5,-2), got %v", moved.Position)
	}
	if light.Position != core.NewVec3(0, 5, 0) {
		t.Errorf("Translate must not modify the receiver, got %v", light.Position)
	}
	if moved.Color != core.White {
		t.Errorf("Translate must keep the color, got %v", moved.Color)
	}
}
