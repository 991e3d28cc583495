package scene

import (
	"math/rand"

	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/material"
	"github.com/glintrender/glint/pkg/renderer"
)

// NewCoverScene creates a large field of small random spheres around three
// big ones. The layout is deterministic. With a few hundred objects this is
// the scene that makes the BVH earn its keep, so it always accelerates.
func NewCoverScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaultCameraConfig := renderer.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         800,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig)
	s.Sampling = renderer.SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        40,
	}
	s.Accelerate = true

	rng := rand.New(rand.NewSource(2024))

	s.AddSphere(core.NewVec3(0, -1000, 0), 1000,
		material.NewLambertian(core.NewColor(0.5, 0.5, 0.5)))

	// Small spheres on a jittered grid, kept clear of the big three.
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*rng.Float64(),
				0.2,
				float64(b)+0.9*rng.Float64(),
			)
			if center.Sub(core.NewVec3(4, 0.2, 0)).Norm() <= 0.9 {
				continue
			}

			choice := rng.Float64()
			switch {
			case choice < 0.8:
				albedo := core.NewColor(
					rng.Float64()*rng.Float64(),
					rng.Float64()*rng.Float64(),
					rng.Float64()*rng.Float64(),
				)
				s.AddSphere(center, 0.2, material.NewLambertian(albedo))
			case choice < 0.95:
				albedo := core.NewColor(
					0.5+0.5*rng.Float64(),
					0.5+0.5*rng.Float64(),
					0.5+0.5*rng.Float64(),
				)
				s.AddSphere(center, 0.2, material.NewMetal(albedo, 0.5*rng.Float64()))
			default:
				s.AddSphere(center, 0.2, material.NewDielectric(1.5))
			}
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5))
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewColor(0.4, 0.2, 0.1)))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0))

	s.AddSphereLight(
		core.NewVec3(20, 25, 20),
		8,
		core.NewColor(12.0, 11.5, 10.0),
	)

	s.Preprocess()
	return s
}
