package renderer

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"github.com/glintrender/glint/pkg/core"
)

// CameraConfig describes a positionable camera.
type CameraConfig struct {
	Center        r3.Vector // Eye position
	LookAt        r3.Vector // Point the camera faces
	Up            r3.Vector // World up, usually (0,1,0)
	Width         int       // Image width in pixels
	AspectRatio   float64   // Width / height
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter; 0 disables depth of field
	FocusDistance float64   // Distance to the plane in perfect focus
}

// MergeCameraConfig overlays the non-zero fields of override onto base, so
// scene constructors can expose camera tweaks without callers re-stating
// the whole configuration.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Center != (r3.Vector{}) {
		merged.Center = override.Center
	}
	if override.LookAt != (r3.Vector{}) {
		merged.LookAt = override.LookAt
	}
	if override.Up != (r3.Vector{}) {
		merged.Up = override.Up
	}
	if override.Width > 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio > 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov > 0 {
		merged.VFov = override.VFov
	}
	if override.Aperture > 0 {
		merged.Aperture = override.Aperture
	}
	if override.FocusDistance > 0 {
		merged.FocusDistance = override.FocusDistance
	}
	return merged
}

// Camera generates primary rays for pixel coordinates.
type Camera struct {
	center          r3.Vector
	lowerLeftCorner r3.Vector
	horizontal      r3.Vector
	vertical        r3.Vector
	u, v            r3.Vector
	lensRadius      float64
	width, height   int
}

// NewCamera builds a camera from its configuration.
func NewCamera(config CameraConfig) *Camera {
	height := int(float64(config.Width) / config.AspectRatio)

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	// Orthonormal basis: w points from the target back to the eye, so the
	// camera looks along -w.
	w := config.Center.Sub(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Zero focus distance means focus on the look-at point.
	focus := config.FocusDistance
	if focus <= 0 {
		focus = config.Center.Sub(config.LookAt).Norm()
	}

	horizontal := u.Mul(viewportWidth * focus)
	vertical := v.Mul(viewportHeight * focus)
	lowerLeftCorner := config.Center.
		Sub(horizontal.Mul(0.5)).
		Sub(vertical.Mul(0.5)).
		Sub(w.Mul(focus))

	return &Camera{
		center:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		lensRadius:      config.Aperture / 2,
		width:           config.Width,
		height:          height,
	}
}

// ImageSize returns the pixel dimensions the camera was configured for.
func (c *Camera) ImageSize() (width, height int) {
	return c.width, c.height
}

// GetRay generates a jittered ray through pixel (i, j), with j counting down
// from the top row the way image buffers do. With a non-zero aperture the
// ray origin is offset across the lens disk for depth of field.
func (c *Camera) GetRay(i, j int, rng *rand.Rand) core.Ray {
	s := (float64(i) + rng.Float64()) / float64(c.width)
	t := 1 - (float64(j)+rng.Float64())/float64(c.height)

	origin := c.center
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(rng).Mul(c.lensRadius)
		origin = origin.Add(c.u.Mul(rd.X)).Add(c.v.Mul(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Mul(s)).
		Add(c.vertical.Mul(t)).
		Sub(origin)

	return core.NewRay(origin, direction)
}
