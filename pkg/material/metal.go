package material

import (
	"math/rand"

	"github.com/golang/geo/r3"

	"github.com/glintrender/glint/pkg/core"
)

// Metal is a specular surface with optional fuzz. Fuzz 0 is a perfect
// mirror; 1 is maximally rough.
type Metal struct {
	Albedo core.Color
	Fuzz   float64
}

// NewMetal creates a metal material, clamping fuzz to [0, 1].
func NewMetal(albedo core.Color, fuzz float64) *Metal {
	if fuzz > 1 {
		fuzz = 1
	}
	if fuzz < 0 {
		fuzz = 0
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter mirrors the ray about the normal, perturbed by fuzz. Rays that
// end up below the surface are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit *core.Hit, rng *rand.Rand) (Scatter, bool) {
	reflected := reflect(rayIn.Direction.Normalize(), hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(rng).Mul(m.Fuzz))
	}

	if reflected.Dot(hit.Normal) <= 0 {
		return Scatter{}, false
	}

	return Scatter{
		Ray:         core.NewRay(hit.Position, reflected),
		Attenuation: m.Albedo,
	}, true
}

// Emitted is zero; metals only reflect.
func (m *Metal) Emitted() core.Color {
	return core.Color{}
}

// reflect mirrors v about the unit normal n: v - 2(v·n)n.
func reflect(v, n r3.Vector) r3.Vector {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}
