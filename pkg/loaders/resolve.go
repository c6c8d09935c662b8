package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// ResolveScene turns a scene name into a scene. Names ending in .json are
// loaded as paths, "json:<name>" loads <scenesDir>/<name>.json, and anything
// else is looked up as a built-in scene before falling back to a scene file
// of the same name in scenesDir.
func ResolveScene(name, scenesDir string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given")
	}

	if strings.HasSuffix(name, ".json") {
		return LoadScene(name)
	}
	if fileName, ok := strings.CutPrefix(name, "json:"); ok {
		return LoadScene(filepath.Join(scenesDir, fileName+".json"))
	}

	sc, err := scene.NewBuiltin(name)
	if err == nil {
		return sc, nil
	}

	path := filepath.Join(scenesDir, name+".json")
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadScene(path)
	}
	return nil, err
}
