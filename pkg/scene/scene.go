package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// DefaultMaxReflectionDepth bounds the number of recursive trace levels
const DefaultMaxReflectionDepth = 4

// Scene contains all the elements needed for rendering. Tracing never
// mutates a Scene, so any number of goroutines may render from it at once;
// camera moves and Step must not overlap with a render in flight.
type Scene struct {
	Shapes             []geometry.Shape    // Objects in the scene, scanned in order
	Lights             []lights.PointLight // Point lights, each shaded independently
	Camera             Camera              // Camera pose
	MaxReflectionDepth int                 // Trace levels before returning black
	LightDrift         core.Vec3           // Per-Step light translation, zero by default
}

// New creates an empty scene with the given camera pose
func New(camera Camera) *Scene {
	return &Scene{
		Shapes:             make([]geometry.Shape, 0),
		Lights:             make([]lights.PointLight, 0),
		Camera:             camera,
		MaxReflectionDepth: DefaultMaxReflectionDepth,
	}
}

// AddShape appends a shape to the scene
func (s *Scene) AddShape(shape geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// AddLight appends a point light to the scene
func (s *Scene) AddLight(light lights.PointLight) {
	s.Lights = append(s.Lights, light)
}

// Step is the per-frame animation hook. It moves every light by LightDrift,
// which leaves the scene untouched unless a drift was configured.
func (s *Scene) Step() {
	if s.LightDrift == (core.Vec3{}) {
		return
	}
	for i := range s.Lights {
		s.Lights[i] = s.Lights[i].Translate(s.LightDrift)
	}
}

// Snapshot returns a copy that shares the immutable shapes but owns its
// camera and lights, so the original can be mutated while the copy renders.
func (s *Scene) Snapshot() *Scene {
	snap := *s
	snap.Shapes = append([]geometry.Shape(nil), s.Shapes...)
	snap.Lights = append([]lights.PointLight(nil), s.Lights...)
	return &snap
}

// MoveCameraForward moves the camera one direction length forward
func (s *Scene) MoveCameraForward() {
	s.Camera.MoveForward()
}

// MoveCameraBack moves the camera one direction length back
func (s *Scene) MoveCameraBack() {
	s.Camera.MoveBack()
}

// RotateCamera yaws the camera by xRot and pitches it by yRot (radians)
func (s *Scene) RotateCamera(xRot, yRot float64) {
	s.Camera.Rotate(xRot, yRot)
}
