package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// Trace returns the color seen along a ray. Each level shades the closest
// hit with ambient plus Phong terms from every unshadowed light, then adds
// the mirror-reflected ray's color scaled by the material reflectivity.
// Rays that escape the scene or exceed MaxReflectionDepth are black.
// Colors are not clamped here.
func (s *Scene) Trace(origin, dir core.Vec3, depth int) core.Color {
	if depth >= s.MaxReflectionDepth {
		return core.Black
	}

	hit, ok := s.ClosestHit(origin, dir)
	if !ok {
		return core.Black
	}

	local := s.shade(origin, hit)

	incoming := hit.Point.Subtract(origin).Normalize()
	reflected := incoming.Subtract(hit.Normal.Multiply(2 * incoming.Dot(hit.Normal)))
	mirrored := s.Trace(hit.Point, reflected, depth+1)

	return local.Add(mirrored.Multiply(hit.Material.Reflectivity))
}

// shade computes the local Phong color at a hit seen from viewPoint
func (s *Scene) shade(viewPoint core.Vec3, hit geometry.Intersection) core.Color {
	color := hit.Material.Ambient
	for _, light := range s.Lights {
		if !s.IsDirectLight(hit.Point, light) {
			continue
		}
		color = color.Add(hit.Material.Phong(viewPoint, hit.Point, hit.Normal, light.Position, light.Color))
	}
	return color
}

// IsDirectLight reports whether nothing lies between point and the light
func (s *Scene) IsDirectLight(point core.Vec3, light lights.PointLight) bool {
	dir, dist := light.Feeler(point)
	for _, shape := range s.Shapes {
		if d, ok := shape.IntersectDist(point, dir); ok && d < dist {
			return false
		}
	}
	return true
}

// ClosestHit finds the nearest intersection along a ray. Equal distances
// resolve to the shape added first.
func (s *Scene) ClosestHit(origin, dir core.Vec3) (geometry.Intersection, bool) {
	index, _, ok := s.ClosestShape(origin, dir)
	if !ok {
		return geometry.Intersection{}, false
	}
	return s.Shapes[index].Intersect(origin, dir)
}

// ClosestShape returns the index of the nearest shape along a ray and its
// distance in units of dir's length
func (s *Scene) ClosestShape(origin, dir core.Vec3) (int, float64, bool) {
	closest := -1
	closestDist := 0.0

	for i, shape := range s.Shapes {
		d, ok := shape.IntersectDist(origin, dir)
		if !ok {
			continue
		}
		if closest < 0 || d < closestDist {
			closest = i
			closestDist = d
		}
	}
	return closest, closestDist, closest >= 0
}
