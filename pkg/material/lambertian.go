package material

import (
	"math/rand"

	"github.com/glintrender/glint/pkg/core"
)

// Lambertian is a perfectly diffuse surface.
type Lambertian struct {
	Albedo core.Color
}

// NewLambertian creates a diffuse material with the given base color.
func NewLambertian(albedo core.Color) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter bounces into a cosine-weighted direction around the normal on the
// ray's arrival side. The cosine weighting cancels the geometric cosine
// term, leaving the plain albedo as attenuation.
func (l *Lambertian) Scatter(rayIn core.Ray, hit *core.Hit, rng *rand.Rand) (Scatter, bool) {
	normal := hit.Normal
	if rayIn.Direction.Dot(normal) > 0 {
		normal = normal.Mul(-1)
	}

	direction := core.SampleCosineHemisphere(normal, rng)
	return Scatter{
		Ray:         core.NewRay(hit.Position, direction),
		Attenuation: l.Albedo,
	}, true
}

// Emitted is zero; diffuse surfaces only reflect.
func (l *Lambertian) Emitted() core.Color {
	return core.Color{}
}
