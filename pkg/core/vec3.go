package core

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// NewVec3 builds an r3.Vector from its components. Points and directions
// throughout the tracer are r3.Vector values.
func NewVec3(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// MinVec returns the component-wise minimum of two vectors.
func MinVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		Z: math.Min(a.Z, b.Z),
	}
}

// MaxVec returns the component-wise maximum of two vectors.
func MaxVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{
		X: math.Max(a.X, b.X),
		Y: math.Max(a.Y, b.Y),
		Z: math.Max(a.Z, b.Z),
	}
}

// RandomInUnitDisk returns a point inside the unit disk on the XY plane,
// used for depth-of-field lens sampling.
func RandomInUnitDisk(rng *rand.Rand) r3.Vector {
	for {
		p := r3.Vector{X: 2*rng.Float64() - 1, Y: 2*rng.Float64() - 1}
		if p.Dot(p) < 1 {
			return p
		}
	}
}

// RandomInUnitSphere returns a point inside the unit ball by rejection
// sampling.
func RandomInUnitSphere(rng *rand.Rand) r3.Vector {
	for {
		p := r3.Vector{
			X: 2*rng.Float64() - 1,
			Y: 2*rng.Float64() - 1,
			Z: 2*rng.Float64() - 1,
		}
		if p.Norm2() < 1 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed unit direction.
func RandomUnitVector(rng *rand.Rand) r3.Vector {
	return RandomInUnitSphere(rng).Normalize()
}

// SampleCosineHemisphere returns a cosine-weighted random direction in the
// hemisphere around normal, the distribution diffuse reflection wants.
func SampleCosineHemisphere(normal r3.Vector, rng *rand.Rand) r3.Vector {
	a := 2 * math.Pi * rng.Float64()
	z := rng.Float64()
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	up := math.Sqrt(1 - z)

	// Orthonormal basis around the normal.
	var nt r3.Vector
	if math.Abs(normal.X) > 0.1 {
		nt = r3.Vector{Y: 1}
	} else {
		nt = r3.Vector{X: 1}
	}
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)

	return tangent.Mul(x).Add(bitangent.Mul(y)).Add(normal.Mul(up))
}
