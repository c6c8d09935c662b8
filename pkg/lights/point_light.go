package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

// PointLight is an infinitely small light source at a fixed position
type PointLight struct {
	Position core.Vec3
	Color    core.Color
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, color core.Color) PointLight {
	return PointLight{Position: position, Color: color}
}

// Feeler returns the unit direction and the distance from point to the light
func (l PointLight) Feeler(point core.Vec3) (core.Vec3, float64) {
	toLight := l.Position.Subtract(point)
	return toLight.Normalize(), toLight.Length()
}

// Translate returns the light moved by offset
func (l PointLight) Translate(offset core.Vec3) PointLight {
	l.Position = l.Position.Add(offset)
	return l
}
