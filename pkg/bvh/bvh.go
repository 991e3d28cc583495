// Package bvh builds a bounding volume hierarchy over a fixed set of
// hittables and serves nearest-hit queries against it. The hierarchy is
// opaque once built: it answers Hit and nothing else.
package bvh

import (
	"sort"

	"github.com/golang/geo/r3"

	"github.com/glintrender/glint/pkg/core"
)

// leafSize is the cutoff below which a node keeps its objects in a flat
// slice and searches them linearly instead of splitting further.
const leafSize = 8

// entry pairs an object with its bounding box, read exactly once when the
// tree is built. Building over an object whose box is unavailable (another
// BVH, say) panics here rather than producing a wrong tree.
type entry struct {
	object core.Hittable
	box    core.AABB
	center r3.Vector
}

// node is one tree node. Leaves hold entries and have no children; internal
// nodes hold both children and no entries.
type node struct {
	box     core.AABB
	left    *node
	right   *node
	entries []entry
}

// BVH accelerates nearest-hit queries over a fixed set of hittables. Build
// it once with New and query it from as many goroutines as you like; the
// tree is immutable after construction.
type BVH struct {
	root *node
}

// New builds a hierarchy over the given objects by median split along the
// longest axis of each node's box. The input slice is not retained.
func New(objects []core.Hittable) *BVH {
	if len(objects) == 0 {
		return &BVH{}
	}

	entries := make([]entry, len(objects))
	for i, obj := range objects {
		box := obj.BoundingBox()
		entries[i] = entry{object: obj, box: box, center: box.Center()}
	}

	return &BVH{root: build(entries)}
}

func build(entries []entry) *node {
	box := entries[0].box
	for _, e := range entries[1:] {
		box = box.Union(e.box)
	}

	if len(entries) <= leafSize {
		return &node{box: box, entries: entries}
	}

	sortByAxis(entries, box.LongestAxis())

	mid := len(entries) / 2
	return &node{
		box:   box,
		left:  build(entries[:mid]),
		right: build(entries[mid:]),
	}
}

func sortByAxis(entries []entry, axis int) {
	sort.Slice(entries, func(i, j int) bool {
		switch axis {
		case 0:
			return entries[i].center.X < entries[j].center.X
		case 1:
			return entries[i].center.Y < entries[j].center.Y
		default:
			return entries[i].center.Z < entries[j].center.Z
		}
	})
}

// Hit returns the nearest intersection within the ray's interval, or
// (nil, false) when nothing is struck.
func (b *BVH) Hit(ray core.Ray) (*core.Hit, bool) {
	if b.root == nil {
		return nil, false
	}
	return b.root.hit(ray)
}

func (n *node) hit(ray core.Ray) (*core.Hit, bool) {
	if !n.box.Hit(ray) {
		return nil, false
	}

	if n.entries != nil {
		var nearest *core.Hit
		for _, e := range n.entries {
			if hit, ok := e.object.Hit(ray); ok {
				ray.TMax = hit.T
				nearest = hit
			}
		}
		return nearest, nearest != nil
	}

	var nearest *core.Hit
	if hit, ok := n.left.hit(ray); ok {
		ray.TMax = hit.T
		nearest = hit
	}
	if hit, ok := n.right.hit(ray); ok {
		nearest = hit
	}
	return nearest, nearest != nil
}

// BoundingBox always panics. The boxes that shaped the tree are consumed at
// build time and the box of the whole hierarchy is not recomputable from the
// opaque structure; returning a guess would silently corrupt anything built
// on top of it.
func (b *BVH) BoundingBox() core.AABB {
	panic("bvh: BoundingBox queried on a built hierarchy")
}

// Stats describes the shape of a built tree.
type Stats struct {
	Nodes        int
	Leaves       int
	Objects      int
	MaxDepth     int
	AvgLeafDepth float64
}

// Stats walks the tree and reports its shape, mainly for build logging.
func (b *BVH) Stats() Stats {
	var s Stats
	if b.root == nil {
		return s
	}

	collectStats(b.root, 0, &s)
	if s.Leaves > 0 {
		s.AvgLeafDepth /= float64(s.Leaves)
	}
	return s
}

func collectStats(n *node, depth int, s *Stats) {
	s.Nodes++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}

	if n.entries != nil {
		s.Leaves++
		s.Objects += len(n.entries)
		s.AvgLeafDepth += float64(depth)
		return
	}

	collectStats(n.left, depth+1, s)
	collectStats(n.right, depth+1, s)
}
