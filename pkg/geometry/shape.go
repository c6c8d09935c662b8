package geometry

import (
	"errors"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// ErrInvalidShape is returned when a shape is constructed with degenerate parameters
var ErrInvalidShape = errors.New("invalid shape")

// Kind identifies the concrete shape variant
type Kind int

const (
	KindSphere Kind = iota
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "Sphere"
	case KindPlane:
		return "Plane"
	default:
		return "Unknown"
	}
}

// Intersection contains information about a ray-shape intersection
type Intersection struct {
	Point    core.Vec3         // Point of intersection
	Normal   core.Vec3         // Unit surface normal used for shading
	Material material.Material // Copy of the shape's material
}

// Shape is implemented by *Sphere and *Plane only. Distances returned by
// IntersectDist are in units of the given direction's length.
type Shape interface {
	// IntersectDist returns the distance to the nearest valid hit
	IntersectDist(origin, dir core.Vec3) (float64, bool)
	// Intersect returns the full hit record for the nearest valid hit
	Intersect(origin, dir core.Vec3) (Intersection, bool)
	// Kind reports the concrete variant
	Kind() Kind

	sealed()
}
