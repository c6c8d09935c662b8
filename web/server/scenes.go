package server

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

var (
	errSceneNotFound = errors.New("scene not found")
	errSceneInvalid  = errors.New("scene file could not be loaded")
)

type cachedScene struct {
	modTime time.Time
	size    int64
	scene   *scene.Scene
}

// sceneCache keeps parsed scene files until they change on disk
type sceneCache struct {
	mu      sync.Mutex
	entries map[string]cachedScene
}

func newSceneCache() *sceneCache {
	return &sceneCache{entries: make(map[string]cachedScene)}
}

// resolveScene accepts built-in names and json:<name> for files directly
// inside scenesDir. Loader details are logged, never returned to clients.
func (s *Server) resolveScene(name string) (*scene.Scene, error) {
	if fileName, ok := strings.CutPrefix(name, "json:"); ok {
		if !validSceneFileName(fileName) {
			return nil, fmt.Errorf("%w: %q", errSceneNotFound, name)
		}
		return s.loadSceneFile(name, filepath.Join(s.scenesDir, fileName+".json"))
	}

	sc, err := scene.NewBuiltin(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errSceneNotFound, name)
	}
	return sc, nil
}

func validSceneFileName(name string) bool {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

// loadSceneFile returns a snapshot of the cached scene at path, parsing it
// again only when its size or modification time changed
func (s *Server) loadSceneFile(name, path string) (*scene.Scene, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %q", errSceneNotFound, name)
	}

	s.scenes.mu.Lock()
	defer s.scenes.mu.Unlock()

	if entry, ok := s.scenes.entries[path]; ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.scene.Snapshot(), nil
	}

	sc, err := loaders.LoadScene(path)
	if err != nil {
		log.Printf("Failed to load scene %s: %v", name, err)
		return nil, fmt.Errorf("%w: %q", errSceneInvalid, name)
	}
	s.scenes.entries[path] = cachedScene{modTime: info.ModTime(), size: info.Size(), scene: sc}
	return sc.Snapshot(), nil
}
