package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

func colorApproxEqual(a, b core.Color, tolerance float64) bool {
	return math.Abs(a.R-b.R) <= tolerance &&
		math.Abs(a.G-b.G) <= tolerance &&
		math.Abs(a.B-b.B) <= tolerance
}

func TestMaterial_Validate(t *testing.T) {
	tests := []struct {
		name      string
		material  Material
		expectErr bool
	}{
		{"mirror", Mirror, false},
		{"sphere default", NewSphereMaterial(core.Red), false},
		{"plane default", NewPlaneMaterial(core.Green), false},
		{"negative shininess", Material{Shininess: -1}, true},
		{"reflectivity above one", Material{Reflectivity: 1.5}, true},
		{"negative reflectivity", Material{Reflectivity: -0.1}, true},
		{"NaN shininess", Material{Shininess: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.material.Validate()
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidMaterial) {
					t.Errorf("Expected ErrInvalidMaterial, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestPhong_LightAlongNormal(t *testing.T) {
	m := Material{
		Diffuse:   core.NewColor(0.5, 0.25, 1),
		Specular:  core.NewColor(0.1, 0.1, 0.1),
		Shininess: 10,
	}
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)
	lightPos := core.NewVec3(0, 5, 0)
	view := core.NewVec3(0, 3, 0)

	got := m.Phong(view, point, normal, lightPos, core.White)

	// Full diffuse plus full specular since the reflected light points at the viewer
	want := core.NewColor(0.6, 0.35, 1.1)
	if !colorApproxEqual(got, want, 1e-12) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPhong_LightBehindSurface(t *testing.T) {
	m := NewSphereMaterial(core.White)
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)
	lightPos := core.NewVec3(0, -5, 0)
	view := core.NewVec3(0, 3, 0)

	got := m.Phong(view, point, normal, lightPos, core.White)
	if !got.IsBlack() {
		t.Errorf("Expected no contribution from a light behind the surface, got %v", got)
	}
}

func TestPhong_DiffuseFollowsCosine(t *testing.T) {
	m := NewDiffuse(core.White)
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)
	lightPos := core.NewVec3(1, 1, 0)
	view := core.NewVec3(0, 1, 0)

	got := m.Phong(view, point, normal, lightPos, core.NewColor(1, 0.5, 0))

	cos45 := math.Sqrt2 / 2
	want := core.NewColor(cos45, 0.5*cos45, 0)
	if !colorApproxEqual(got, want, 1e-12) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPhong_SpecularFalloff(t *testing.T) {
	m := Material{Specular: core.White, Shininess: 20}
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 1, 0)
	lightPos := core.NewVec3(-1, 1, 0)

	// Viewer on the mirror direction sees the highlight, a viewer off to the side sees less
	onAxis := m.Phong(core.NewVec3(1, 1, 0), point, normal, lightPos, core.White)
	offAxis := m.Phong(core.NewVec3(0.2, 1, 0), point, normal, lightPos, core.White)

	if math.Abs(onAxis.R-1) > 1e-12 {
		t.Errorf("Expected full highlight on the mirror direction, got %v", onAxis)
	}
	if offAxis.R >= onAxis.R {
		t.Errorf("Expected highlight to fall off away from the mirror direction: on=%v off=%v", onAxis, offAxis)
	}
}
