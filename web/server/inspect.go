package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/geometry"
	"github.com/glintrender/glint/pkg/material"
	"github.com/glintrender/glint/pkg/renderer"
	"github.com/glintrender/glint/pkg/scene"
)

// InspectResponse describes what the camera ray through a pixel hits.
type InspectResponse struct {
	Hit        bool                   `json:"hit"`
	Material   string                 `json:"material,omitempty"`
	Point      []float64              `json:"point,omitempty"`
	Normal     []float64              `json:"normal,omitempty"`
	Distance   float64                `json:"distance,omitempty"`
	Sphere     *SphereInfo            `json:"sphere,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// SphereInfo identifies the sphere a hit landed on.
type SphereInfo struct {
	Center [3]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// handleInspect casts a camera ray through the requested pixel and returns
// what it hits as JSON. Used by the preview page to identify objects under
// the cursor.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	name := query.Get("scene")
	if name == "" {
		name = "default"
	}

	width, err := parseIntParam(query, "width", 400, 64, s.config.MaxWidth)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	sceneObj, err := scene.Build(name, renderer.CameraConfig{Width: width})
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	imgWidth, imgHeight := sceneObj.GetCamera().ImageSize()

	x, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid y coordinate")
		return
	}
	if x < 0 || x >= imgWidth || y < 0 || y >= imgHeight {
		writeJSONError(w, http.StatusBadRequest, "pixel coordinates out of bounds")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(inspectPixel(sceneObj, x, y))
}

// inspectPixel casts the camera ray through a pixel and reports the nearest
// surface. The jitter source is fixed so repeated queries agree.
func inspectPixel(sc *scene.Scene, x, y int) InspectResponse {
	rng := rand.New(rand.NewSource(0))
	ray := sc.GetCamera().GetRay(x, y, rng)

	hit, ok := sc.GetWorld().Hit(ray)
	if !ok {
		return InspectResponse{Hit: false}
	}

	materialType, props := materialInfo(sc.Materials.Lookup(hit.Material))

	resp := InspectResponse{
		Hit:        true,
		Material:   materialType,
		Point:      []float64{hit.Position.X, hit.Position.Y, hit.Position.Z},
		Normal:     []float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:   hit.T,
		Properties: props,
	}

	if sphere := findSphere(sc.Objects, ray, hit.T); sphere != nil {
		resp.Sphere = &SphereInfo{
			Center: [3]float64{sphere.Center.X, sphere.Center.Y, sphere.Center.Z},
			Radius: sphere.Radius,
		}
	}
	return resp
}

// materialInfo extracts the material kind and its parameters.
func materialInfo(m material.Material) (string, map[string]interface{}) {
	props := make(map[string]interface{})

	switch m := m.(type) {
	case *material.Lambertian:
		props["albedo"] = []float64{m.Albedo.R, m.Albedo.G, m.Albedo.B}
		return "lambertian", props
	case *material.Metal:
		props["albedo"] = []float64{m.Albedo.R, m.Albedo.G, m.Albedo.B}
		props["fuzz"] = m.Fuzz
		return "metal", props
	case *material.Dielectric:
		props["refractiveIndex"] = m.RefractiveIndex
		return "dielectric", props
	case *material.Emissive:
		props["emission"] = []float64{m.Emission.R, m.Emission.G, m.Emission.B}
		return "emissive", props
	default:
		return "unknown", props
	}
}

// findSphere re-tests each object to recover which sphere produced the hit;
// the world aggregate only reports the hit itself.
func findSphere(objects []core.Hittable, ray core.Ray, t float64) *geometry.Sphere {
	for _, obj := range objects {
		sphere, ok := obj.(*geometry.Sphere)
		if !ok {
			continue
		}
		if h, ok := sphere.Hit(ray); ok && h.T == t {
			return sphere
		}
	}
	return nil
}

// writeJSONError sends a JSON error body with the given status.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
