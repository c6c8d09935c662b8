package scene

import (
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

func colorApproxEqual(a, b core.Color, tolerance float64) bool {
	return math.Abs(a.R-b.R) <= tolerance &&
		math.Abs(a.G-b.G) <= tolerance &&
		math.Abs(a.B-b.B) <= tolerance
}

func mustSphere(t *testing.T, center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	t.Helper()
	s, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	return s
}

func mustPlane(t *testing.T, point, normal core.Vec3, mat material.Material) *geometry.Plane {
	t.Helper()
	p, err := geometry.NewPlane(point, normal, mat)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	return p
}

// singleSphere builds a white diffuse sphere at (0,0,10) with radius 5, lit from (0,5,0)
func singleSphere(t *testing.T) *Scene {
	t.Helper()
	sc := New(NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)))
	sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 10), 5, material.NewDiffuse(core.White)))
	sc.AddLight(lights.NewPointLight(core.NewVec3(0, 5, 0), core.White))
	return sc
}

// mirrorCorridor builds two facing planes at z=±10 with no lights, so every
// level contributes only the ambient term
func mirrorCorridor(t *testing.T, ambient, reflectivity float64, depth int) *Scene {
	t.Helper()
	mat := material.Material{
		Ambient:      core.NewColor(ambient, ambient, ambient),
		Reflectivity: reflectivity,
	}
	sc := New(NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)))
	sc.MaxReflectionDepth = depth
	sc.AddShape(mustPlane(t, core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), mat))
	sc.AddShape(mustPlane(t, core.NewVec3(0, 0, -10), core.NewVec3(0, 0, 1), mat))
	return sc
}

func TestTrace_SphereFacingCamera(t *testing.T) {
	sc := singleSphere(t)

	got := sc.Trace(sc.Camera.Position, core.NewVec3(0, 0, 1), 0)

	// Hit at (0,0,5) with normal -Z; the light arrives at 45 degrees
	cos45 := math.Sqrt2 / 2
	want := core.NewColor(cos45, cos45, cos45)
	if !colorApproxEqual(got, want, 1e-9) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTrace_MissIsBlack(t *testing.T) {
	sc := singleSphere(t)

	got := sc.Trace(sc.Camera.Position, core.NewVec3(1, 1, 1).Normalize(), 0)
	if got != core.Black {
		t.Errorf("Expected exact black for a ray that misses, got %v", got)
	}
}

func TestTrace_EndToEndImageCenter(t *testing.T) {
	sc := singleSphere(t)
	const h, v = 64, 64

	// The center ray passes through pixel h/2-1 of scanline v/2
	center := sc.LineColors(h, v, v/2)[h/2-1]
	if center.IsBlack() || center.R < 0.5 {
		t.Errorf("Expected a lit center pixel, got %v", center)
	}

	corner := sc.LineColors(h, v, 0)[0]
	if corner != core.Black {
		t.Errorf("Expected exact black in the corner, got %v", corner)
	}
}

func TestTrace_ShadowRemovesLightContribution(t *testing.T) {
	sc := singleSphere(t)
	hitPoint := core.NewVec3(0, 0, 5)
	light := sc.Lights[0]

	if !sc.IsDirectLight(hitPoint, light) {
		t.Fatal("Expected the light to be visible before adding an occluder")
	}

	// Occluder halfway between the hit point and the light, clear of the camera ray
	sc.AddShape(mustSphere(t, core.NewVec3(0, 2.5, 2.5), 1, material.NewDiffuse(core.Red)))

	if sc.IsDirectLight(hitPoint, light) {
		t.Error("Expected the occluder to block the light")
	}

	got := sc.Trace(sc.Camera.Position, core.NewVec3(0, 0, 1), 0)
	if !got.IsBlack() {
		t.Errorf("Expected no diffuse or specular light in shadow, got %v", got)
	}
}

func TestIsDirectLight_IgnoresShapesBeyondLight(t *testing.T) {
	sc := singleSphere(t)
	// A sphere behind the light along the feeler does not cast a shadow
	sc.AddShape(mustSphere(t, core.NewVec3(0, 10, -5), 1, material.NewDiffuse(core.Red)))

	if !sc.IsDirectLight(core.NewVec3(0, 0, 5), sc.Lights[0]) {
		t.Error("Expected shapes past the light to be ignored")
	}
}

func TestTrace_DepthBound(t *testing.T) {
	tests := []struct {
		name         string
		ambient      float64
		reflectivity float64
		depth        int
		want         float64
	}{
		{"half reflective, depth 4", 0.1, 0.5, 4, 0.1 * (1 + 0.5 + 0.25 + 0.125)},
		{"perfect mirrors, depth 4", 0.1, 1, 4, 0.4},
		{"perfect mirrors, depth 8", 0.1, 1, 8, 0.8},
		{"single level", 0.1, 1, 1, 0.1},
		{"zero depth", 0.1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := mirrorCorridor(t, tt.ambient, tt.reflectivity, tt.depth)

			got := sc.Trace(sc.Camera.Position, core.NewVec3(0, 0, 1), 0)

			if math.IsInf(got.R, 0) || math.IsNaN(got.R) {
				t.Fatalf("Expected a finite color, got %v", got)
			}
			if math.Abs(got.R-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, got.R)
			}
		})
	}
}

func TestTrace_ReflectionNotClampedBeforeScaling(t *testing.T) {
	// Each level is already saturated; the sum must keep growing
	sc := mirrorCorridor(t, 1, 0.5, 2)

	got := sc.Trace(sc.Camera.Position, core.NewVec3(0, 0, 1), 0)
	if math.Abs(got.R-1.5) > 1e-9 {
		t.Errorf("Expected unclamped 1.5, got %f", got.R)
	}
	if r, _, _ := got.RGB8(); r != 255 {
		t.Errorf("Expected export to clamp to 255, got %d", r)
	}
}

func TestClosestHit(t *testing.T) {
	near := material.NewDiffuse(core.Red)
	far := material.NewDiffuse(core.Blue)

	sc := New(NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)))
	sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 20), 1, far))
	sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 10), 1, near))

	hit, ok := sc.ClosestHit(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Material != near {
		t.Errorf("Expected the nearer sphere regardless of insertion order, got %+v", hit.Material)
	}
	if math.Abs(hit.Point.Z-9) > 1e-9 {
		t.Errorf("Expected hit at z=9, got %v", hit.Point)
	}

	if _, ok := sc.ClosestHit(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)); ok {
		t.Error("Expected no hit looking away from every shape")
	}
}

func TestClosestHit_TieGoesToFirstShape(t *testing.T) {
	first := material.NewDiffuse(core.Red)
	second := material.NewDiffuse(core.Green)

	sc := New(NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)))
	sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 10), 1, first))
	sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 10), 1, second))

	hit, ok := sc.ClosestHit(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Material != first {
		t.Errorf("Expected the first shape to win a tie, got %+v", hit.Material)
	}
}

func TestClosestShape(t *testing.T) {
	sc := New(NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)))
	sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 20), 1, material.NewDiffuse(core.Blue)))
	sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 10), 1, material.NewDiffuse(core.Red)))

	index, dist, ok := sc.ClosestShape(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 2))
	if !ok || index != 1 {
		t.Fatalf("Expected shape 1, got %d (ok=%v)", index, ok)
	}
	// Distance is measured in direction lengths
	if math.Abs(dist-4.5) > 1e-9 {
		t.Errorf("Expected distance 4.5, got %f", dist)
	}

	if _, _, ok := sc.ClosestShape(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)); ok {
		t.Error("Expected no shape above the camera")
	}
}

func TestTrace_OnlyVisibleLightsAreShaded(t *testing.T) {
	mat := material.Material{Ambient: core.NewColor(0.1, 0.1, 0.1), Diffuse: core.White}
	key := lights.NewPointLight(core.NewVec3(0, 5, 0), core.White)
	fill := lights.NewPointLight(core.NewVec3(0, -5, 0), core.Blue)

	build := func(withOccluder bool) *Scene {
		sc := New(NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0)))
		sc.AddShape(mustSphere(t, core.NewVec3(0, 0, 10), 5, mat))
		if withOccluder {
			// Sits on the segment from the hit point (0,0,5) to the fill light only
			sc.AddShape(mustSphere(t, core.NewVec3(0, -2.5, 2.5), 1, material.NewDiffuse(core.White)))
		}
		sc.AddLight(key)
		sc.AddLight(fill)
		return sc
	}

	hitPoint := core.NewVec3(0, 0, 5)
	normal := core.NewVec3(0, 0, -1)
	origin := core.NewVec3(0, 0, 0)
	keyTerm := mat.Phong(origin, hitPoint, normal, key.Position, key.Color)
	fillTerm := mat.Phong(origin, hitPoint, normal, fill.Position, fill.Color)

	tests := []struct {
		name         string
		withOccluder bool
		want         core.Color
	}{
		{"both lights visible", false, mat.Ambient.Add(keyTerm).Add(fillTerm)},
		{"fill light blocked", true, mat.Ambient.Add(keyTerm)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := build(tt.withOccluder)

			if !sc.IsDirectLight(hitPoint, key) {
				t.Error("Expected the key light to reach the hit point")
			}
			if got := sc.IsDirectLight(hitPoint, fill); got == tt.withOccluder {
				t.Errorf("IsDirectLight(fill) = %v with occluder=%v", got, tt.withOccluder)
			}

			got := sc.Trace(origin, core.NewVec3(0, 0, 1), 0)
			if !colorApproxEqual(got, tt.want, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	// The fill light is what separates the two cases
	if fillTerm.B < 0.5 {
		t.Fatalf("Expected the fill light to add blue, got %v", fillTerm)
	}
}
