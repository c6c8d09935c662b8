package geometry

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// planeEpsilon is the minimum facing term for a ray to count as hitting the plane
const planeEpsilon = 1e-6

// Plane represents an infinite one-sided plane defined by a point and normal.
// Only rays travelling against the normal (arriving at the front face) hit it.
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Unit normal, the visible side
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane, normalizing the normal
func NewPlane(point, normal core.Vec3, mat material.Material) (*Plane, error) {
	if !point.IsFinite() || !normal.IsFinite() {
		return nil, fmt.Errorf("%w: plane point %v and normal %v must be finite", ErrInvalidShape, point, normal)
	}
	if normal.LengthSquared() == 0 {
		return nil, fmt.Errorf("%w: plane normal must be non-zero", ErrInvalidShape)
	}
	if err := mat.Validate(); err != nil {
		return nil, fmt.Errorf("%w: plane material: %v", ErrInvalidShape, err)
	}
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: mat,
	}, nil
}

// NewColoredPlane creates a plane using the default matte plane material
func NewColoredPlane(point, normal core.Vec3, color core.Color) (*Plane, error) {
	return NewPlane(point, normal, material.NewPlaneMaterial(color))
}

// Kind implements Shape
func (p *Plane) Kind() Kind { return KindPlane }

func (p *Plane) sealed() {}

// IntersectDist implements Shape
func (p *Plane) IntersectDist(origin, dir core.Vec3) (float64, bool) {
	inward := p.Normal.Negate()

	// Parallel rays and rays reaching the back face never hit
	denom := inward.Dot(dir)
	if denom <= planeEpsilon {
		return 0, false
	}

	t := p.Point.Subtract(origin).Dot(inward) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Intersect implements Shape
func (p *Plane) Intersect(origin, dir core.Vec3) (Intersection, bool) {
	t, ok := p.IntersectDist(origin, dir)
	if !ok {
		return Intersection{}, false
	}

	return Intersection{
		Point:    origin.Add(dir.Multiply(t)),
		Normal:   p.Normal,
		Material: p.Material,
	}, true
}
