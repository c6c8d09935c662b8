package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// ErrUnknownScene is returned when a scene name matches no built-in scene
var ErrUnknownScene = errors.New("unknown scene")

type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Glossy and mirrored spheres on a floor with two lights",
			Group:       builtinGroup,
			Type:        "builtin",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "mirrors",
			Name:        "Mirror Corridor",
			DisplayName: "Mirror Corridor",
			Description: "Two facing mirrors around a sphere, bounded by reflection depth",
			Group:       builtinGroup,
			Type:        "builtin",
		},
		build: NewMirrorScene,
	},
	{
		info: SceneInfo{
			ID:          "single-sphere",
			Name:        "Single Sphere",
			DisplayName: "Single Sphere",
			Description: "One white diffuse sphere lit from above",
			Group:       builtinGroup,
			Type:        "builtin",
		},
		build: NewSingleSphereScene,
	},
}

// NewBuiltin creates the built-in scene with the given ID
func NewBuiltin(name string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.build()
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// BuiltinNames returns the IDs of the built-in scenes in display order
func BuiltinNames() []string {
	names := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		names[i] = b.info.ID
	}
	return names
}

// sceneBuilder collects shapes and keeps the first construction error
type sceneBuilder struct {
	scene *Scene
	err   error
}

func (b *sceneBuilder) add(shape geometry.Shape, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.scene.AddShape(shape)
}

func (b *sceneBuilder) result() (*Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.scene, nil
}

// NewDefaultScene creates a floor, a back wall, a mirror sphere and a few
// glossy spheres lit by a key light and a dim fill light
func NewDefaultScene() (*Scene, error) {
	camera := NewCamera(core.NewVec3(0, 1, -6), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))
	b := &sceneBuilder{scene: New(camera)}

	ambient := core.NewColor(0.05, 0.05, 0.05)

	floor := material.NewPlaneMaterial(core.NewColor(0.6, 0.6, 0.55))
	floor.Ambient = ambient
	wall := material.NewPlaneMaterial(core.NewColor(0.3, 0.35, 0.5))
	wall.Ambient = ambient
	wall.Reflectivity = 0

	white := material.NewSphereMaterial(core.White)
	white.Ambient = ambient
	red := material.NewSphereMaterial(core.NewColor(0.9, 0.2, 0.15))
	red.Ambient = ambient
	blue := material.NewSphereMaterial(core.NewColor(0.15, 0.3, 0.9))
	blue.Ambient = ambient

	chrome := material.Mirror
	chrome.Specular = core.White
	chrome.Shininess = 60
	chrome.Reflectivity = 0.9

	b.add(geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), floor))
	b.add(geometry.NewPlane(core.NewVec3(0, 0, 20), core.NewVec3(0, 0, -1), wall))
	b.add(geometry.NewSphere(core.NewVec3(0, 1, 6), 2, white))
	b.add(geometry.NewSphere(core.NewVec3(-4, 1.5, 9), 2.5, chrome))
	b.add(geometry.NewSphere(core.NewVec3(3.5, 0, 4), 1, red))
	b.add(geometry.NewSphere(core.NewVec3(1.5, -0.25, 1.5), 0.75, blue))

	b.scene.AddLight(lights.NewPointLight(core.NewVec3(-5, 8, -4), core.NewColor(0.8, 0.8, 0.8)))
	b.scene.AddLight(lights.NewPointLight(core.NewVec3(6, 5, -2), core.NewColor(0.3, 0.3, 0.4)))

	return b.result()
}

// NewMirrorScene places a sphere between two parallel mirrors so that rays
// bounce until the reflection depth runs out
func NewMirrorScene() (*Scene, error) {
	camera := NewCamera(core.NewVec3(0, 1, -6), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))
	b := &sceneBuilder{scene: New(camera)}
	b.scene.MaxReflectionDepth = 8

	mirror := material.Mirror
	mirror.Ambient = core.NewColor(0.02, 0.02, 0.03)
	mirror.Reflectivity = 0.85

	b.add(geometry.NewPlane(core.NewVec3(-4, 0, 0), core.NewVec3(1, 0, 0), mirror))
	b.add(geometry.NewPlane(core.NewVec3(4, 0, 0), core.NewVec3(-1, 0, 0), mirror))
	b.add(geometry.NewColoredPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewColor(0.5, 0.5, 0.5)))
	b.add(geometry.NewColoredSphere(core.NewVec3(0, 0.5, 6), 1.5, core.NewColor(0.9, 0.6, 0.1)))

	b.scene.AddLight(lights.NewPointLight(core.NewVec3(0, 6, 0), core.White))

	return b.result()
}

// NewSingleSphereScene creates a white diffuse sphere of radius 5 ten units
// in front of a camera at the origin, lit from (0,5,0)
func NewSingleSphereScene() (*Scene, error) {
	camera := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0))
	b := &sceneBuilder{scene: New(camera)}

	b.add(geometry.NewSphere(core.NewVec3(0, 0, 10), 5, material.NewDiffuse(core.White)))
	b.scene.AddLight(lights.NewPointLight(core.NewVec3(0, 5, 0), core.White))

	return b.result()
}
