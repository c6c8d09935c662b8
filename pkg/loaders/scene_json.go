package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/sauerbraten/jsonfile"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// ErrInvalidScene is returned for scene files that parse but describe an unusable scene
var ErrInvalidScene = errors.New("invalid scene")

// LoadError reports a scene file that could not be read, parsed or built
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load scene %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Scene file layout. Vectors are objects, colors are [r, g, b] arrays and
// shapes are objects keyed by their variant name.
type vecJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type colorJSON [3]float64

type materialJSON struct {
	Ambient      colorJSON `json:"ambient_color"`
	Specular     colorJSON `json:"specular_color"`
	Diffuse      colorJSON `json:"diffuse_color"`
	Shininess    float64   `json:"shininess"`
	Reflectivity float64   `json:"reflectivity"`
}

type sphereJSON struct {
	Center   vecJSON       `json:"center"`
	Radius   float64       `json:"radius"`
	Material *materialJSON `json:"material,omitempty"`
	Color    *colorJSON    `json:"color,omitempty"`
	Epsilon  *float64      `json:"epsilon,omitempty"`
}

type planeJSON struct {
	Point    vecJSON       `json:"point"`
	Normal   vecJSON       `json:"normal"`
	Material *materialJSON `json:"material,omitempty"`
	Color    *colorJSON    `json:"color,omitempty"`
}

type shapeJSON struct {
	Sphere *sphereJSON `json:"Sphere,omitempty"`
	Plane  *planeJSON  `json:"Plane,omitempty"`
}

type lightJSON struct {
	Pos   vecJSON   `json:"pos"`
	Color colorJSON `json:"color"`
}

type sceneJSON struct {
	Shapes        []shapeJSON `json:"shapes"`
	Light         *lightJSON  `json:"light,omitempty"`
	Lights        []lightJSON `json:"lights,omitempty"`
	CameraPos     vecJSON     `json:"camera_pos"`
	CameraDir     vecJSON     `json:"camera_dir"`
	CameraUp      vecJSON     `json:"camera_up"`
	MaxReflection *int        `json:"max_reflection,omitempty"`
	LightDrift    *vecJSON    `json:"light_drift,omitempty"`
}

func (v vecJSON) vec() core.Vec3 { return core.NewVec3(v.X, v.Y, v.Z) }
func (c colorJSON) color() core.Color { return core.NewColor(c[0], c[1], c[2]) }
func toVecJSON(v core.Vec3) vecJSON { return vecJSON{v.X, v.Y, v.Z} }
func toColorJSON(c core.Color) colorJSON { return colorJSON{c.R, c.G, c.B} }

func (m materialJSON) material() material.Material {
	return material.Material{
		Ambient:      m.Ambient.color(),
		Specular:     m.Specular.color(),
		Diffuse:      m.Diffuse.color(),
		Shininess:    m.Shininess,
		Reflectivity: m.Reflectivity,
	}
}

func toMaterialJSON(m material.Material) *materialJSON {
	return &materialJSON{
		Ambient:      toColorJSON(m.Ambient),
		Specular:     toColorJSON(m.Specular),
		Diffuse:      toColorJSON(m.Diffuse),
		Shininess:    m.Shininess,
		Reflectivity: m.Reflectivity,
	}
}

// LoadScene reads a JSON scene file. Lines starting with // are comments.
// Every failure is returned as a *LoadError.
//
// jsonfile.ParseFile never closes the file it opens, so each call holds a
// descriptor until the *os.File finalizer runs. Long-running callers should
// cache loaded scenes rather than reload them per request.
func LoadScene(path string) (*scene.Scene, error) {
	var doc sceneJSON
	if err := jsonfile.ParseFile(path, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	sc, err := doc.build()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return sc, nil
}

func (doc *sceneJSON) build() (*scene.Scene, error) {
	camera := scene.NewCamera(doc.CameraPos.vec(), doc.CameraDir.vec(), doc.CameraUp.vec())
	if !camera.Position.IsFinite() || !camera.Direction.IsFinite() || !camera.Up.IsFinite() {
		return nil, fmt.Errorf("%w: camera vectors must be finite", ErrInvalidScene)
	}
	if camera.Direction.Cross(camera.Up).LengthSquared() == 0 {
		return nil, fmt.Errorf("%w: camera_dir must be non-zero and not parallel to camera_up", ErrInvalidScene)
	}

	sc := scene.New(camera)
	if doc.MaxReflection != nil {
		if *doc.MaxReflection < 0 {
			return nil, fmt.Errorf("%w: max_reflection must be >= 0, got %d", ErrInvalidScene, *doc.MaxReflection)
		}
		sc.MaxReflectionDepth = *doc.MaxReflection
	}
	if doc.LightDrift != nil {
		sc.LightDrift = doc.LightDrift.vec()
	}

	for i, s := range doc.Shapes {
		shape, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		sc.AddShape(shape)
	}

	if doc.Light != nil {
		sc.AddLight(lights.NewPointLight(doc.Light.Pos.vec(), doc.Light.Color.color()))
	}
	for _, l := range doc.Lights {
		sc.AddLight(lights.NewPointLight(l.Pos.vec(), l.Color.color()))
	}

	return sc, nil
}

func (s shapeJSON) build() (geometry.Shape, error) {
	switch {
	case s.Sphere != nil && s.Plane != nil:
		return nil, fmt.Errorf("%w: shape has both Sphere and Plane", geometry.ErrInvalidShape)
	case s.Sphere != nil:
		return s.Sphere.build()
	case s.Plane != nil:
		return s.Plane.build()
	default:
		return nil, fmt.Errorf("%w: expected a Sphere or Plane", geometry.ErrInvalidShape)
	}
}

func (s *sphereJSON) build() (geometry.Shape, error) {
	mat, err := resolveMaterial(s.Material, s.Color, material.NewSphereMaterial)
	if err != nil {
		return nil, err
	}
	sphere, err := geometry.NewSphere(s.Center.vec(), s.Radius, mat)
	if err != nil {
		return nil, err
	}
	if s.Epsilon != nil {
		eps := *s.Epsilon
		if !(eps >= 0) || math.IsInf(eps, 0) {
			return nil, fmt.Errorf("%w: sphere epsilon must be >= 0, got %v", geometry.ErrInvalidShape, eps)
		}
		sphere = sphere.WithEpsilon(eps)
	}
	return sphere, nil
}

func (p *planeJSON) build() (geometry.Shape, error) {
	mat, err := resolveMaterial(p.Material, p.Color, material.NewPlaneMaterial)
	if err != nil {
		return nil, err
	}
	return geometry.NewPlane(p.Point.vec(), p.Normal.vec(), mat)
}

// resolveMaterial prefers an explicit material over the color shorthand
func resolveMaterial(m *materialJSON, c *colorJSON, fromColor func(core.Color) material.Material) (material.Material, error) {
	switch {
	case m != nil:
		return m.material(), nil
	case c != nil:
		return fromColor(c.color()), nil
	default:
		return material.Material{}, fmt.Errorf("%w: shape needs a material or a color", material.ErrInvalidMaterial)
	}
}

// SaveScene writes sc in the layout LoadScene reads. A scene with exactly
// one light uses the single "light" field.
func SaveScene(path string, sc *scene.Scene) error {
	doc := sceneJSON{
		Shapes:    make([]shapeJSON, 0, len(sc.Shapes)),
		CameraPos: toVecJSON(sc.Camera.Position),
		CameraDir: toVecJSON(sc.Camera.Direction),
		CameraUp:  toVecJSON(sc.Camera.Up),
	}
	depth := sc.MaxReflectionDepth
	doc.MaxReflection = &depth
	if sc.LightDrift != (core.Vec3{}) {
		drift := toVecJSON(sc.LightDrift)
		doc.LightDrift = &drift
	}

	for i, shape := range sc.Shapes {
		switch s := shape.(type) {
		case *geometry.Sphere:
			sj := &sphereJSON{
				Center:   toVecJSON(s.Center),
				Radius:   s.Radius,
				Material: toMaterialJSON(s.Material),
			}
			if s.Epsilon != geometry.DefaultSphereEpsilon {
				eps := s.Epsilon
				sj.Epsilon = &eps
			}
			doc.Shapes = append(doc.Shapes, shapeJSON{Sphere: sj})
		case *geometry.Plane:
			doc.Shapes = append(doc.Shapes, shapeJSON{Plane: &planeJSON{
				Point:    toVecJSON(s.Point),
				Normal:   toVecJSON(s.Normal),
				Material: toMaterialJSON(s.Material),
			}})
		default:
			return fmt.Errorf("save scene %s: %w: shape %d has unsupported kind %v", path, geometry.ErrInvalidShape, i, shape.Kind())
		}
	}

	if len(sc.Lights) == 1 {
		doc.Light = &lightJSON{Pos: toVecJSON(sc.Lights[0].Position), Color: toColorJSON(sc.Lights[0].Color)}
	} else {
		for _, l := range sc.Lights {
			doc.Lights = append(doc.Lights, lightJSON{Pos: toVecJSON(l.Position), Color: toColorJSON(l.Color)})
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("save scene %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("save scene %s: %w", path, err)
	}
	return nil
}
