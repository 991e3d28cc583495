// Package scene assembles cameras, materials and geometry into renderable
// scenes, either from built-in constructors or from TOML scene files.
package scene

import (
	"github.com/golang/geo/r3"

	"github.com/glintrender/glint/pkg/bvh"
	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/geometry"
	"github.com/glintrender/glint/pkg/material"
	"github.com/glintrender/glint/pkg/renderer"
)

// Scene contains all the elements needed for rendering.
type Scene struct {
	CameraConfig renderer.CameraConfig
	Sampling     renderer.SamplingConfig

	// Background gradient, blended by ray direction.
	TopColor    core.Color
	BottomColor core.Color

	Objects   []core.Hittable
	Materials *material.Table

	// Accelerate selects a BVH over a plain list for the world. Worth it
	// from a few dozen objects up.
	Accelerate bool

	camera *renderer.Camera
	world  core.Hittable
}

// New returns an empty scene with an empty material table.
func New(cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		CameraConfig: cameraConfig,
		Sampling:     renderer.DefaultSamplingConfig(),
		TopColor:     core.NewColor(0.5, 0.7, 1.0),
		BottomColor:  core.NewColor(1.0, 1.0, 1.0),
		Materials:    material.NewTable(),
	}
}

// AddMaterial registers a material and returns its handle.
func (s *Scene) AddMaterial(m material.Material) core.MaterialID {
	return s.Materials.Add(m)
}

// AddSphere registers the material and adds a sphere using it.
func (s *Scene) AddSphere(center r3.Vector, radius float64, m material.Material) {
	s.Objects = append(s.Objects, geometry.NewSphere(center, radius, s.AddMaterial(m)))
}

// AddSphereLight adds an emissive sphere.
func (s *Scene) AddSphereLight(center r3.Vector, radius float64, emission core.Color) {
	s.AddSphere(center, radius, material.NewEmissive(emission))
}

// Preprocess builds the camera and the world from the current objects.
// Call it again after mutating Objects; the built-in constructors and the
// loader return scenes already preprocessed. Rendering shares the scene
// across workers, so all mutation must happen before the render starts.
func (s *Scene) Preprocess() {
	s.camera = renderer.NewCamera(s.CameraConfig)

	if s.Accelerate {
		s.world = bvh.New(s.Objects)
	} else {
		s.world = geometry.NewList(s.Objects...)
	}
}

// GetCamera returns the camera built by Preprocess.
func (s *Scene) GetCamera() *renderer.Camera { return s.camera }

// GetWorld returns the world built by Preprocess.
func (s *Scene) GetWorld() core.Hittable { return s.world }

// GetMaterials returns the scene's material table.
func (s *Scene) GetMaterials() *material.Table { return s.Materials }

// GetBackgroundColors returns the background gradient endpoints.
func (s *Scene) GetBackgroundColors() (top, bottom core.Color) {
	return s.TopColor, s.BottomColor
}
