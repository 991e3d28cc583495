package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/glintrender/glint/pkg/bvh"
	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/geometry"
	"github.com/glintrender/glint/pkg/material"
	"github.com/glintrender/glint/pkg/renderer"
)

func writeSceneFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.toml")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("Writing scene file: %v", err)
	}
	return path
}

const validScene = `
accelerate = true

[camera]
center = [0.0, 2.0, 5.0]
look-at = [0.0, 0.0, -1.0]
width = 320
aspect-ratio = 1.6
vfov = 45.0
aperture = 0.02
focus-distance = 4.0

[background]
top = [0.4, 0.6, 1.0]
bottom = [0.9, 0.9, 0.9]

[sampling]
samples-per-pixel = 64
max-depth = 16

[materials.ground]
type = "lambertian"
albedo = [0.5, 0.5, 0.5]

[materials.shiny]
type = "metal"
albedo = [0.9, 0.9, 0.9]
fuzz = 0.1

[materials.lens]
type = "dielectric"
refractive-index = 1.5

[materials.lamp]
type = "emissive"
emission = [10.0, 9.0, 8.0]

[[spheres]]
center = [0.0, -1000.0, 0.0]
radius = 1000.0
material = "ground"

[[spheres]]
center = [0.0, 1.0, 0.0]
radius = 1.0
material = "shiny"

[[spheres]]
center = [2.0, 1.0, 0.0]
radius = 1.0
material = "lens"

[[spheres]]
center = [0.0, 6.0, 0.0]
radius = 2.0
material = "lamp"
`

func TestLoad(t *testing.T) {
	s, err := Load(writeSceneFile(t, validScene))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wantCamera := renderer.CameraConfig{
		Center:        core.NewVec3(0, 2, 5),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0), // Defaulted
		Width:         320,
		AspectRatio:   1.6,
		VFov:          45.0,
		Aperture:      0.02,
		FocusDistance: 4.0,
	}
	if diff := cmp.Diff(wantCamera, s.CameraConfig); diff != "" {
		t.Errorf("Camera config mismatch (-want +got):\n%s", diff)
	}

	wantSampling := renderer.SamplingConfig{SamplesPerPixel: 64, MaxDepth: 16}
	if diff := cmp.Diff(wantSampling, s.Sampling); diff != "" {
		t.Errorf("Sampling config mismatch (-want +got):\n%s", diff)
	}

	if s.TopColor != core.NewColor(0.4, 0.6, 1.0) || s.BottomColor != core.NewColor(0.9, 0.9, 0.9) {
		t.Errorf("Background = %+v / %+v", s.TopColor, s.BottomColor)
	}

	if len(s.Objects) != 4 {
		t.Fatalf("Loaded %d objects, want 4", len(s.Objects))
	}
	if s.Materials.Len() != 4 {
		t.Fatalf("Loaded %d materials, want 4", s.Materials.Len())
	}
	if _, ok := s.GetWorld().(*bvh.BVH); !ok {
		t.Errorf("accelerate = true should build a BVH, got %T", s.GetWorld())
	}

	// The named material must come back on a hit.
	ray := core.NewRay(core.NewVec3(0, 1, -5), core.NewVec3(0, 0, 1))
	hit, ok := s.GetWorld().Hit(ray)
	if !ok {
		t.Fatal("Probe ray at the metal sphere misses")
	}
	metal, ok := s.Materials.Lookup(hit.Material).(*material.Metal)
	if !ok {
		t.Fatalf("Probe hit resolved to %T, want the metal sphere", s.Materials.Lookup(hit.Material))
	}
	if metal.Albedo != core.NewColor(0.9, 0.9, 0.9) || metal.Fuzz != 0.1 {
		t.Errorf("Metal loaded as %+v", metal)
	}
}

func TestLoad_PlainListByDefault(t *testing.T) {
	src := strings.Replace(validScene, "accelerate = true\n", "", 1)
	s, err := Load(writeSceneFile(t, src))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := s.GetWorld().(*geometry.List); !ok {
		t.Errorf("Unaccelerated scene world is %T, want a list", s.GetWorld())
	}
}

func TestLoad_CameraOverrides(t *testing.T) {
	s, err := Load(writeSceneFile(t, validScene), renderer.CameraConfig{Width: 64})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	width, height := s.GetCamera().ImageSize()
	if width != 64 || height != 40 {
		t.Errorf("Image size %dx%d, want 64x40 after override", width, height)
	}
}

func TestLoad_Errors(t *testing.T) {
	const minimalCamera = `
[camera]
width = 100
aspect-ratio = 1.0
vfov = 60.0
`

	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "unknown key",
			src:     "[camera]\nwdth = 100\naspect-ratio = 1.0\nvfov = 60.0\n",
			wantErr: "unknown keys",
		},
		{
			name:    "missing camera width",
			src:     "[camera]\naspect-ratio = 1.0\nvfov = 60.0\n",
			wantErr: "width must be positive",
		},
		{
			name:    "absurd vfov",
			src:     "[camera]\nwidth = 100\naspect-ratio = 1.0\nvfov = 200.0\n",
			wantErr: "vfov",
		},
		{
			name: "unknown material reference",
			src: minimalCamera + `
[[spheres]]
center = [0.0, 0.0, 0.0]
radius = 1.0
material = "nosuch"
`,
			wantErr: "unknown material",
		},
		{
			name: "unknown material type",
			src: minimalCamera + `
[materials.odd]
type = "velvet"
`,
			wantErr: "unknown type",
		},
		{
			name: "untyped material",
			src: minimalCamera + `
[materials.odd]
albedo = [1.0, 1.0, 1.0]
`,
			wantErr: "has no type",
		},
		{
			name: "dielectric without index",
			src: minimalCamera + `
[materials.lens]
type = "dielectric"
`,
			wantErr: "refractive-index",
		},
		{
			name: "non-positive radius",
			src: minimalCamera + `
[materials.m]
type = "lambertian"
albedo = [0.5, 0.5, 0.5]

[[spheres]]
center = [0.0, 0.0, 0.0]
radius = -1.0
material = "m"
`,
			wantErr: "non-positive radius",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSceneFile(t, tt.src))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "decoding scene file") {
		t.Errorf("Error %q should carry the decode context", err)
	}
}
