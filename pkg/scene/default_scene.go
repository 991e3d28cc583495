package scene

import (
	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/material"
	"github.com/glintrender/glint/pkg/renderer"
)

// NewDefaultScene creates the default demo scene: a sphere ground, three
// large spheres with different materials, two small glass spheres and a
// warm sun light.
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(0, 0.75, 2), // Slightly above and behind the spheres
		LookAt:        core.NewVec3(0, 0.5, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          40.0,
		Aperture:      0.05,
		FocusDistance: 0.0, // Focus on the look-at point
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig)
	s.Sampling = renderer.SamplingConfig{
		SamplesPerPixel: 200,
		MaxDepth:        50,
	}

	olive := material.NewLambertian(core.NewColor(0.48, 0.48, 0.0))
	red := material.NewLambertian(core.NewColor(0.65, 0.25, 0.2))
	blue := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	silver := material.NewMetal(core.NewColor(0.8, 0.8, 0.8), 0.0)
	gold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(1.5)

	// The ground is a huge sphere; its top is flat enough at this scale.
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, olive)

	s.AddSphere(core.NewVec3(0, 0.5, -1), 0.5, red)
	s.AddSphere(core.NewVec3(-1, 0.5, -1), 0.5, silver)
	s.AddSphere(core.NewVec3(1, 0.5, -1), 0.5, gold)

	// A solid glass sphere, and a glass sphere with a blue core.
	s.AddSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, glass)
	s.AddSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25, glass)
	s.AddSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20, blue)

	s.AddSphereLight(
		core.NewVec3(30, 30.5, 15),
		10,
		core.NewColor(15.0, 14.0, 13.0),
	)

	s.Preprocess()
	return s
}
