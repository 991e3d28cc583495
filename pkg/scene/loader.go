package scene

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/geometry"
	"github.com/glintrender/glint/pkg/material"
	"github.com/glintrender/glint/pkg/renderer"
)

// sceneFile mirrors the TOML scene format. Materials are named and spheres
// reference them by name.
type sceneFile struct {
	Accelerate bool                    `toml:"accelerate"`
	Camera     cameraFile              `toml:"camera"`
	Background backgroundFile          `toml:"background"`
	Sampling   samplingFile            `toml:"sampling"`
	Materials  map[string]materialFile `toml:"materials"`
	Spheres    []sphereFile            `toml:"spheres"`
}

type cameraFile struct {
	Center        [3]float64 `toml:"center"`
	LookAt        [3]float64 `toml:"look-at"`
	Up            [3]float64 `toml:"up"`
	Width         int        `toml:"width"`
	AspectRatio   float64    `toml:"aspect-ratio"`
	VFov          float64    `toml:"vfov"`
	Aperture      float64    `toml:"aperture"`
	FocusDistance float64    `toml:"focus-distance"`
}

// Pointers distinguish "not set" from an explicit black sky.
type backgroundFile struct {
	Top    *[3]float64 `toml:"top"`
	Bottom *[3]float64 `toml:"bottom"`
}

type samplingFile struct {
	SamplesPerPixel int `toml:"samples-per-pixel"`
	MaxDepth        int `toml:"max-depth"`
}

type materialFile struct {
	Type            string     `toml:"type"`
	Albedo          [3]float64 `toml:"albedo"`
	Fuzz            float64    `toml:"fuzz"`
	RefractiveIndex float64    `toml:"refractive-index"`
	Emission        [3]float64 `toml:"emission"`
}

type sphereFile struct {
	Center   [3]float64 `toml:"center"`
	Radius   float64    `toml:"radius"`
	Material string     `toml:"material"`
}

// errUnknownKeys reports scene file keys the loader does not understand.
// Misspelled keys fail loudly instead of silently rendering the wrong scene.
type errUnknownKeys []string

func (e errUnknownKeys) Error() string {
	return "unknown keys: [" + strings.Join(e, ", ") + "]"
}

// Load reads a TOML scene file and builds the scene it describes. The
// returned scene is preprocessed and ready to render.
func Load(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	var f sceneFile
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding scene file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var unknown errUnknownKeys
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		return nil, errors.Wrapf(unknown, "scene file %s", path)
	}

	cameraConfig, err := f.Camera.toConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "scene file %s", path)
	}
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	s := New(cameraConfig)
	s.Accelerate = f.Accelerate

	if f.Sampling.SamplesPerPixel > 0 {
		s.Sampling.SamplesPerPixel = f.Sampling.SamplesPerPixel
	}
	if f.Sampling.MaxDepth > 0 {
		s.Sampling.MaxDepth = f.Sampling.MaxDepth
	}
	if f.Background.Top != nil {
		s.TopColor = toColor(*f.Background.Top)
	}
	if f.Background.Bottom != nil {
		s.BottomColor = toColor(*f.Background.Bottom)
	}

	// Register materials in name order so handles are stable across loads.
	names := make([]string, 0, len(f.Materials))
	for name := range f.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]core.MaterialID, len(names))
	for _, name := range names {
		m, err := buildMaterial(name, f.Materials[name])
		if err != nil {
			return nil, errors.Wrapf(err, "scene file %s", path)
		}
		ids[name] = s.AddMaterial(m)
	}

	for i, sphere := range f.Spheres {
		if sphere.Radius <= 0 {
			return nil, errors.Errorf("scene file %s: sphere %d has non-positive radius %v", path, i, sphere.Radius)
		}
		id, ok := ids[sphere.Material]
		if !ok {
			return nil, errors.Errorf("scene file %s: sphere %d references unknown material %q", path, i, sphere.Material)
		}
		s.Objects = append(s.Objects, geometry.NewSphere(toVec(sphere.Center), sphere.Radius, id))
	}

	s.Preprocess()
	return s, nil
}

func (c cameraFile) toConfig() (renderer.CameraConfig, error) {
	if c.Width <= 0 {
		return renderer.CameraConfig{}, errors.Errorf("camera width must be positive, got %d", c.Width)
	}
	if c.AspectRatio <= 0 {
		return renderer.CameraConfig{}, errors.Errorf("camera aspect-ratio must be positive, got %v", c.AspectRatio)
	}
	if c.VFov <= 0 || c.VFov >= 180 {
		return renderer.CameraConfig{}, errors.Errorf("camera vfov must be in (0, 180), got %v", c.VFov)
	}

	up := toVec(c.Up)
	if up == (r3.Vector{}) {
		up = core.NewVec3(0, 1, 0)
	}

	return renderer.CameraConfig{
		Center:        toVec(c.Center),
		LookAt:        toVec(c.LookAt),
		Up:            up,
		Width:         c.Width,
		AspectRatio:   c.AspectRatio,
		VFov:          c.VFov,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
	}, nil
}

func buildMaterial(name string, f materialFile) (material.Material, error) {
	switch f.Type {
	case "lambertian":
		return material.NewLambertian(toColor(f.Albedo)), nil
	case "metal":
		return material.NewMetal(toColor(f.Albedo), f.Fuzz), nil
	case "dielectric":
		if f.RefractiveIndex <= 0 {
			return nil, errors.Errorf("material %q needs a positive refractive-index", name)
		}
		return material.NewDielectric(f.RefractiveIndex), nil
	case "emissive":
		return material.NewEmissive(toColor(f.Emission)), nil
	case "":
		return nil, errors.Errorf("material %q has no type", name)
	default:
		return nil, errors.Errorf("material %q has unknown type %q", name, f.Type)
	}
}

func toVec(a [3]float64) r3.Vector {
	return core.NewVec3(a[0], a[1], a[2])
}

func toColor(a [3]float64) core.Color {
	return core.NewColor(a[0], a[1], a[2])
}
