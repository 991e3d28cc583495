package core

import (
	"github.com/golang/geo/r3"
)

// AABB is an axis-aligned bounding box spanning [Min, Max] on each axis.
// The zero value is the degenerate box at the origin and acts as the
// identity for Union, so boxes can be folded together from it. A zero box
// still occupies the single point (0,0,0); callers that fold real extents
// should seed the fold with the first box rather than the zero value when
// that matters.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABB returns the box spanning min and max.
func NewAABB(min, max r3.Vector) AABB {
	return AABB{Min: min, Max: max}
}

// Union returns the smallest box enclosing both a and b. It is commutative
// and associative, so aggregates can fold child boxes in any order.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: MinVec(a.Min, b.Min),
		Max: MaxVec(a.Max, b.Max),
	}
}

// Hit reports whether the ray's active interval overlaps the box, using the
// slab test one axis at a time. Rays parallel to a slab hit only if their
// origin lies between the slab planes.
func (a AABB) Hit(r Ray) bool {
	tMin, tMax := r.TMin, r.TMax

	for axis := 0; axis < 3; axis++ {
		var origin, dir, lo, hi float64
		switch axis {
		case 0:
			origin, dir, lo, hi = r.Origin.X, r.Direction.X, a.Min.X, a.Max.X
		case 1:
			origin, dir, lo, hi = r.Origin.Y, r.Direction.Y, a.Min.Y, a.Max.Y
		case 2:
			origin, dir, lo, hi = r.Origin.Z, r.Direction.Z, a.Min.Z, a.Max.Z
		}

		if dir > -1e-8 && dir < 1e-8 {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		inv := 1.0 / dir
		t0 := (lo - origin) * inv
		t1 := (hi - origin) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}
	return true
}

// Center returns the box midpoint.
func (a AABB) Center() r3.Vector {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the box extent along each axis.
func (a AABB) Size() r3.Vector {
	return a.Max.Sub(a.Min)
}

// LongestAxis returns 0, 1 or 2 for the axis with the greatest extent.
func (a AABB) LongestAxis() int {
	s := a.Size()
	if s.X >= s.Y && s.X >= s.Z {
		return 0
	}
	if s.Y >= s.Z {
		return 1
	}
	return 2
}

// IsValid reports whether the box has non-negative extent on every axis.
func (a AABB) IsValid() bool {
	return a.Min.X <= a.Max.X && a.Min.Y <= a.Max.Y && a.Min.Z <= a.Max.Z
}
