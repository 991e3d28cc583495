package geometry

import (
	"github.com/glintrender/glint/pkg/core"
)

// List is a flat aggregate of hittables searched by linear scan. It is the
// reference container; large scenes wrap their contents in a BVH instead.
type List struct {
	Objects []core.Hittable
}

// NewList creates a list over the given objects.
func NewList(objects ...core.Hittable) *List {
	return &List{Objects: objects}
}

// Add appends objects to the list.
func (l *List) Add(objects ...core.Hittable) {
	l.Objects = append(l.Objects, objects...)
}

// Hit scans every member and returns the nearest hit. After each hit the
// scan tightens the upper bound of its own ray copy to the hit distance, so
// later members only register when strictly closer. The caller's ray is
// untouched.
func (l *List) Hit(ray core.Ray) (*core.Hit, bool) {
	var nearest *core.Hit
	for _, obj := range l.Objects {
		if hit, ok := obj.Hit(ray); ok {
			ray.TMax = hit.T
			nearest = hit
		}
	}
	return nearest, nearest != nil
}

// BoundingBox folds the members' boxes into one. An empty list reports the
// zero box.
func (l *List) BoundingBox() core.AABB {
	if len(l.Objects) == 0 {
		return core.AABB{}
	}
	box := l.Objects[0].BoundingBox()
	for _, obj := range l.Objects[1:] {
		box = box.Union(obj.BoundingBox())
	}
	return box
}
