package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color"` // Traced pixel color as #rrggbb
	LitBy        []int                  `json:"litBy"` // Indices of lights not in shadow
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains the shape hit by an inspection ray
type InspectResult struct {
	Hit          bool
	ShapeIndex   int
	Distance     float64 // World units from the camera to the hit point
	Intersection geometry.Intersection
	Color        core.Color
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Color) string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// extractMaterialInfo lists the Phong parameters of a material
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	return map[string]interface{}{
		"ambient":      hexColor(mat.Ambient),
		"diffuse":      hexColor(mat.Diffuse),
		"specular":     hexColor(mat.Specular),
		"shininess":    mat.Shininess,
		"reflectivity": mat.Reflectivity,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) map[string]interface{} {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		properties["epsilon"] = geom.Epsilon
	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
	}
	return properties
}

// inspectPixel casts the primary ray of a pixel and reports the first shape it hits
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	frame := sceneObj.Camera.Frame(width, height)
	dir := frame.Directions(pixelY)[pixelX]
	origin := frame.Origin

	index, _, ok := sceneObj.ClosestShape(origin, dir)
	if !ok {
		return InspectResult{Hit: false}
	}
	hit, ok := sceneObj.Shapes[index].Intersect(origin, dir)
	if !ok {
		return InspectResult{Hit: false}
	}

	return InspectResult{
		Hit:          true,
		ShapeIndex:   index,
		Distance:     hit.Point.Subtract(origin).Length(),
		Intersection: hit,
		Color:        sceneObj.Trace(origin, dir, 0),
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if !result.Hit {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(InspectResponse{Hit: false, ShapeIndex: -1, Color: hexColor(core.Black)})
		return
	}

	hit := result.Intersection
	litBy := make([]int, 0, len(sceneObj.Lights))
	for i, light := range sceneObj.Lights {
		if sceneObj.IsDirectLight(hit.Point, light) {
			litBy = append(litBy, i)
		}
	}

	shape := sceneObj.Shapes[result.ShapeIndex]
	response := InspectResponse{
		Hit:          true,
		GeometryType: shape.Kind().String(),
		ShapeIndex:   result.ShapeIndex,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     result.Distance,
		Color:        hexColor(result.Color),
		LitBy:        litBy,
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(hit.Material),
			"geometry": extractGeometryInfo(shape),
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
