package core

import (
	"math"

	"github.com/golang/geo/r3"
)

// Epsilon is the default near bound for primary and scattered rays. It
// keeps secondary rays from re-hitting the surface they just left.
const Epsilon = 0.001

// Ray is a half-line with an active parameter interval. Origin + t*Direction
// is a candidate hit only when TMin <= t <= TMax. Rays are passed by value,
// so a traversal may tighten TMax on its own copy without the caller seeing
// the change.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
	TMin      float64
	TMax      float64
}

// NewRay returns a ray with the standard interval [Epsilon, +Inf).
func NewRay(origin, direction r3.Vector) Ray {
	return Ray{Origin: origin, Direction: direction, TMin: Epsilon, TMax: math.Inf(1)}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Contains reports whether t lies inside the ray's active interval.
func (r Ray) Contains(t float64) bool {
	return t >= r.TMin && t <= r.TMax
}
