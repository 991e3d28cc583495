package material

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"github.com/glintrender/glint/pkg/core"
)

// Dielectric is a clear refractive material like glass or water.
type Dielectric struct {
	RefractiveIndex float64
}

// NewDielectric creates a dielectric with the given index of refraction
// (1.5 is typical glass).
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter refracts through the surface or reflects off it, choosing
// reflection on total internal reflection and stochastically by Fresnel
// reflectance otherwise. Clear glass absorbs nothing, so attenuation is
// white.
func (d *Dielectric) Scatter(rayIn core.Ray, hit *core.Hit, rng *rand.Rand) (Scatter, bool) {
	unitDir := rayIn.Direction.Normalize()

	// The core hands us the outward normal; entering rays see it head-on,
	// exiting rays from behind.
	normal := hit.Normal
	ratio := 1.0 / d.RefractiveIndex
	if unitDir.Dot(hit.Normal) > 0 {
		normal = normal.Mul(-1)
		ratio = d.RefractiveIndex
	}

	cosTheta := math.Min(unitDir.Mul(-1).Dot(normal), 1.0)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

	cannotRefract := ratio*sinTheta > 1.0

	var direction r3.Vector
	if cannotRefract || Reflectance(cosTheta, ratio) > rng.Float64() {
		direction = reflect(unitDir, normal)
	} else {
		direction = refract(unitDir, normal, cosTheta, ratio)
	}

	return Scatter{
		Ray:         core.NewRay(hit.Position, direction),
		Attenuation: core.NewColor(1, 1, 1),
	}, true
}

// Emitted is zero; glass only transmits and reflects.
func (d *Dielectric) Emitted() core.Color {
	return core.Color{}
}

// refract bends the unit vector uv through a surface with unit normal n by
// Snell's law, with etaiOverEtat the ratio of refractive indices.
func refract(uv, n r3.Vector, cosTheta, etaiOverEtat float64) r3.Vector {
	rOutPerp := uv.Add(n.Mul(cosTheta)).Mul(etaiOverEtat)
	rOutParallel := n.Mul(-math.Sqrt(math.Abs(1 - rOutPerp.Norm2())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance is Schlick's approximation of the Fresnel reflectance.
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
