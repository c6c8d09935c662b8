package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// DefaultSphereEpsilon is the minimum accepted hit distance for spheres. It
// keeps reflected and shadow rays from re-hitting the surface they leave.
// The value is in scene units and was tuned for scenes a few units to a few
// tens of units across; rescaled scenes should set Sphere.Epsilon.
const DefaultSphereEpsilon = 0.5

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
	Epsilon  float64 // Self-intersection guard, see DefaultSphereEpsilon
}

// NewSphere creates a new sphere with the default self-intersection epsilon
func NewSphere(center core.Vec3, radius float64, mat material.Material) (*Sphere, error) {
	if !center.IsFinite() {
		return nil, fmt.Errorf("%w: sphere center %v is not finite", ErrInvalidShape, center)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: sphere radius must be positive, got %v", ErrInvalidShape, radius)
	}
	if err := mat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: sphere material: %v", ErrInvalidShape, err)
	}
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
		Epsilon:  DefaultSphereEpsilon,
	}, nil
}

// NewColoredSphere creates a sphere using the default glossy sphere material
func NewColoredSphere(center core.Vec3, radius float64, color core.Color) (*Sphere, error) {
	return NewSphere(center, radius, material.NewSphereMaterial(color))
}

// WithEpsilon returns a copy of the sphere using a different self-intersection epsilon
func (s *Sphere) WithEpsilon(epsilon float64) *Sphere {
	c := *s
	c.Epsilon = epsilon
	return &c
}

// Kind implements Shape
func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) sealed() {}

// IntersectDist implements Shape
func (s *Sphere) IntersectDist(origin, dir core.Vec3) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := dir.Dot(dir)
	b := 2.0 * dir.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := b*b - 4*a*c

	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	r0 := (-b - sqrtD) / (2 * a)
	r1 := (-b + sqrtD) / (2 * a)

	// Roots closer than epsilon are the surface the ray is leaving
	if r0 > s.Epsilon && r0 < r1 {
		return r0, true
	}
	if r1 > s.Epsilon {
		return r1, true
	}
	return 0, false
}

// Intersect implements Shape
func (s *Sphere) Intersect(origin, dir core.Vec3) (Intersection, bool) {
	t, ok := s.IntersectDist(origin, dir)
	if !ok {
		return Intersection{}, false
	}

	point := origin.Add(dir.Multiply(t))
	return Intersection{
		Point:    point,
		Normal:   point.Subtract(s.Center).Normalize(),
		Material: s.Material,
	}, true
}
