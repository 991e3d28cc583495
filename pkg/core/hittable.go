package core

import (
	"github.com/golang/geo/r3"
)

// MaterialID is an opaque handle into a material table kept outside the
// geometry layer. Geometry only stores and forwards it; shading code
// resolves it when a hit is consumed.
type MaterialID int32

// Hit describes the nearest intersection found along a ray. Normal is the
// outward surface normal at Position, always pointing away from the shape's
// interior regardless of which side the ray arrived from. Callers that need
// front/back orientation compare Normal against the incoming ray direction.
type Hit struct {
	T        float64
	Position r3.Vector
	Normal   r3.Vector
	Material MaterialID
}

// Hittable is anything a ray can intersect: a single shape, a flat list of
// shapes, or a bounding volume hierarchy built over shapes.
//
// Hit returns the nearest intersection within the ray's [TMin, TMax]
// interval, or (nil, false) on a miss. Implementations never mutate the
// caller's ray; aggregates tighten TMax on their own copy while scanning.
//
// BoundingBox reports a box enclosing the shape. List returns the union of
// its members' boxes (the zero AABB when empty). The BVH consumes member
// boxes at build time and does not serve the query afterwards: calling
// BoundingBox on it panics.
type Hittable interface {
	Hit(ray Ray) (*Hit, bool)
	BoundingBox() AABB
}
