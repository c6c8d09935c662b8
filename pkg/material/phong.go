package material

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Phong returns the diffuse and specular light a single point light adds at
// point. The ambient term is not included; callers add it once per hit.
func (m Material) Phong(viewPoint, point, normal, lightPos core.Vec3, lightColor core.Color) core.Color {
	toLight := lightPos.Subtract(point).Normalize()

	// Lambertian term
	d := math.Max(0, toLight.Dot(normal))
	diffuse := lightColor.MultiplyColor(m.Diffuse).Multiply(d)

	// Reflect the light direction about the normal and compare with the view direction
	v := viewPoint.Subtract(point).Normalize()
	r := normal.Multiply(2 * normal.Dot(toLight)).Subtract(toLight)
	s := math.Pow(math.Max(0, r.Dot(v)), m.Shininess)
	specular := lightColor.MultiplyColor(m.Specular).Multiply(s)

	return diffuse.Add(specular)
}
