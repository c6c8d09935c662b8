package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-phong-raytracer/pkg/export"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// Resolution and camera limits accepted by the render endpoints
const (
	MinResolution     = 16
	MaxResolution     = 2000
	DefaultResolution = 400
	MaxForwardSteps   = 50
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	scenes    *sceneCache
}

// NewServer creates a new web server that also serves the scene files in scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir, scenes: newSceneCache()}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string  `json:"scene"`   // Scene name (e.g., "default" or "json:classic")
	Width   int     `json:"width"`   // Image width
	Height  int     `json:"height"`  // Image height
	Format  string  `json:"format"`  // Output format for /api/render
	Workers int     `json:"workers"` // Parallel workers, 0 for CPU count
	Yaw     float64 `json:"yaw"`     // Camera yaw in radians
	Pitch   float64 `json:"pitch"`   // Camera pitch in radians
	Forward int     `json:"forward"` // Camera steps, negative moves back
}

// Handler returns the routes served by the web server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the scene files on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to list scenes: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleRender renders one frame and writes it as an encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	config := renderer.Config{Width: req.Width, Height: req.Height, NumWorkers: req.Workers}
	raytracer, err := renderer.NewRaytracer(config, renderer.NewDefaultLogger())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, _, err := raytracer.RenderFrame(r.Context(), sceneObj, nil)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Render error: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, img, req.Format); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses and validates the scene, size and camera parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{Scene: "default", Format: "png"}

	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}
	if format := values.Get("format"); format != "" {
		if _, ok := contentTypes[format]; !ok {
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
		req.Format = format
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", DefaultResolution, MinResolution, MaxResolution); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", DefaultResolution, MinResolution, MaxResolution); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.Yaw, err = parseFloatParam(values, "yaw", 0, -2*math.Pi, 2*math.Pi); err != nil {
		return nil, err
	}
	if req.Pitch, err = parseFloatParam(values, "pitch", 0, -math.Pi/2, math.Pi/2); err != nil {
		return nil, err
	}
	if req.Forward, err = parseIntParam(values, "forward", 0, -MaxForwardSteps, MaxForwardSteps); err != nil {
		return nil, err
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves the requested scene and applies the camera motion
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := s.resolveScene(req.Scene)
	if err != nil {
		return nil, err
	}

	if req.Yaw != 0 || req.Pitch != 0 {
		sceneObj.RotateCamera(req.Yaw, req.Pitch)
	}
	for i := 0; i < req.Forward; i++ {
		sceneObj.MoveCameraForward()
	}
	for i := 0; i > req.Forward; i-- {
		sceneObj.MoveCameraBack()
	}
	return sceneObj, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := export.Encode(&buf, img, "png"); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
