package geometry

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/glintrender/glint/pkg/core"
)

// Sphere is the basic primitive: a center, a radius and a material handle.
type Sphere struct {
	Center   r3.Vector
	Radius   float64
	Material core.MaterialID
}

// NewSphere creates a sphere with the given material handle.
func NewSphere(center r3.Vector, radius float64, material core.MaterialID) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit solves the ray-sphere quadratic and returns the nearest root inside
// the ray's interval. A tangential graze has a zero discriminant and counts
// as a miss.
func (s *Sphere) Hit(ray core.Ray) (*core.Hit, bool) {
	oc := ray.Origin.Sub(s.Center)

	// Quadratic coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Norm2()
	halfB := oc.Dot(ray.Direction)
	c := oc.Norm2() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Closer root first, then the far one if the interval excludes it.
	root := (-halfB - sqrtD) / a
	if !ray.Contains(root) {
		root = (-halfB + sqrtD) / a
		if !ray.Contains(root) {
			return nil, false
		}
	}

	position := ray.At(root)
	return &core.Hit{
		T:        root,
		Position: position,
		Normal:   position.Sub(s.Center).Normalize(),
		Material: s.Material,
	}, true
}

// BoundingBox returns the box spanning the sphere on every axis.
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Sub(radius),
		s.Center.Add(radius),
	)
}
