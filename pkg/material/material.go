package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned when material parameters are out of range
var ErrInvalidMaterial = errors.New("invalid material")

// Material holds the Phong reflectance parameters of a surface
type Material struct {
	Ambient      core.Color // Added once per hit, independent of lights
	Specular     core.Color // Specular reflectance
	Diffuse      core.Color // Lambertian reflectance
	Shininess    float64    // Phong exponent (>= 0)
	Reflectivity float64    // Fraction of mirror-traced light mixed in [0, 1]
}

// Mirror is a perfect mirror with no local shading
var Mirror = Material{
	Ambient:      core.Black,
	Specular:     core.Black,
	Diffuse:      core.Black,
	Shininess:    0,
	Reflectivity: 1,
}

// NewSphereMaterial creates the default glossy material used for colored spheres
func NewSphereMaterial(color core.Color) Material {
	return Material{
		Ambient:      core.Black,
		Specular:     core.White,
		Diffuse:      color,
		Shininess:    15,
		Reflectivity: 0.3,
	}
}

// NewPlaneMaterial creates the default matte material used for colored planes
func NewPlaneMaterial(color core.Color) Material {
	return Material{
		Ambient:      core.Black,
		Specular:     core.Black,
		Diffuse:      color,
		Shininess:    15,
		Reflectivity: 0.1,
	}
}

// NewDiffuse creates a material with only a diffuse term
func NewDiffuse(color core.Color) Material {
	return Material{Diffuse: color}
}

// Validate checks that shininess and reflectivity are in range
func (m Material) Validate() error {
	if math.IsNaN(m.Shininess) || m.Shininess < 0 {
		return fmt.Errorf("%w: shininess must be >= 0, got %v", ErrInvalidMaterial, m.Shininess)
	}
	if math.IsNaN(m.Reflectivity) || m.Reflectivity < 0 || m.Reflectivity > 1 {
		return fmt.Errorf("%w: reflectivity must be in [0, 1], got %v", ErrInvalidMaterial, m.Reflectivity)
	}
	return nil
}
