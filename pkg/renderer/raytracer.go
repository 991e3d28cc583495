package renderer

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/glintrender/glint/pkg/core"
	"github.com/glintrender/glint/pkg/material"
)

// SamplingConfig contains the per-pixel sampling parameters.
type SamplingConfig struct {
	SamplesPerPixel int
	MaxDepth        int
}

// DefaultSamplingConfig returns sensible default values.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 200,
		MaxDepth:        50,
	}
}

// Scene is what the renderer needs from a scene. Declared here so the scene
// package can depend on the renderer for camera configs without a cycle.
type Scene interface {
	GetCamera() *Camera
	GetWorld() core.Hittable
	GetMaterials() *material.Table
	GetBackgroundColors() (top, bottom core.Color)
}

// Raytracer traces rays through a scene and shades them.
type Raytracer struct {
	scene  Scene
	width  int
	height int
	config SamplingConfig
}

// NewRaytracer creates a raytracer for the given image size.
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:  scene,
		width:  width,
		height: height,
		config: DefaultSamplingConfig(),
	}
}

// SetSamplingConfig updates the sampling configuration.
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// backgroundGradient shades rays that escape the scene with a vertical
// blend between the scene's bottom and top colors.
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Color {
	top, bottom := rt.scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1)

	return bottom.Lerp(top, t)
}

// rayColor returns the light arriving along a ray: emission at the struck
// surface plus the attenuated light gathered by the scattered ray, down to
// the bounce limit.
func (rt *Raytracer) rayColor(r core.Ray, depth int, rng *rand.Rand) core.Color {
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := rt.scene.GetWorld().Hit(r)
	if !isHit {
		return rt.backgroundGradient(r)
	}

	mat := rt.scene.GetMaterials().Lookup(hit.Material)
	emitted := mat.Emitted()

	scatter, didScatter := mat.Scatter(r, hit, rng)
	if !didScatter {
		return emitted
	}

	return emitted.Add(scatter.Attenuation.Mul(rt.rayColor(scatter.Ray, depth-1, rng)))
}

// colorToRGBA converts a linear color to 8-bit sRGB-ish output with gamma-2
// encoding.
func (rt *Raytracer) colorToRGBA(c core.Color) color.RGBA {
	c = c.Gamma().Clamp()
	return color.RGBA{
		R: uint8(255 * c.R),
		G: uint8(255 * c.G),
		B: uint8(255 * c.B),
		A: 255,
	}
}

// RenderBounds tops up every pixel inside bounds to targetSamples total
// samples, accumulating into the shared stats array. Tiles have disjoint
// bounds, so concurrent workers never touch the same pixel.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, rng *rand.Rand, targetSamples int) RenderStats {
	camera := rt.scene.GetCamera()

	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]

			before := ps.SampleCount
			for ps.SampleCount < targetSamples {
				ray := camera.GetRay(i, j, rng)
				ps.AddSample(rt.rayColor(ray, rt.config.MaxDepth, rng))
			}

			used := ps.SampleCount - before
			stats.TotalSamples += used
			stats.MinSamples = min(stats.MinSamples, used)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, used)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}

// RenderPass renders one full frame at the configured samples per pixel.
// It is the single-shot entry point; progressive rendering goes through
// ProgressiveRaytracer.
func (rt *Raytracer) RenderPass(rng *rand.Rand) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	camera := rt.scene.GetCamera()

	for j := 0; j < rt.height; j++ {
		for i := 0; i < rt.width; i++ {
			var accum core.Color
			for s := 0; s < rt.config.SamplesPerPixel; s++ {
				ray := camera.GetRay(i, j, rng)
				accum = accum.Add(rt.rayColor(ray, rt.config.MaxDepth, rng))
			}

			avg := accum.Scale(1 / float64(rt.config.SamplesPerPixel))
			img.SetRGBA(i, j, rt.colorToRGBA(avg))
		}
	}

	return img
}
