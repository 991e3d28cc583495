package scene

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/glintrender/glint/pkg/renderer"
)

// Info describes a selectable scene for CLIs and the web UI.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Builtins lists the scenes that can be built by name.
func Builtins() []Info {
	return []Info{
		{Name: "default", Description: "Three spheres with glass accents on a sphere ground"},
		{Name: "cover", Description: "Field of ~450 random spheres, BVH accelerated"},
	}
}

// Build constructs a scene: a built-in name, or a path to a .toml scene
// file. Returned scenes are preprocessed and ready to render.
func Build(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	switch name {
	case "default":
		return NewDefaultScene(cameraOverrides...), nil
	case "cover":
		return NewCoverScene(cameraOverrides...), nil
	}

	if strings.HasSuffix(name, ".toml") {
		return Load(name, cameraOverrides...)
	}

	return nil, errors.Errorf("unknown scene %q (builtins: default, cover)", name)
}
