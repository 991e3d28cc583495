package geometry

import (
	"math"
	"testing"

	"github.com/glintrender/glint/pkg/core"
)

func TestList_Hit_NearestWins(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, 0), 1.0, core.MaterialID(1))
	far := NewSphere(core.NewVec3(0, 0, 2), 1.0, core.MaterialID(2))
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	// Both spheres lie on the ray at distances 4 and 6. Whichever order
	// they are listed in, the t=4 hit wins.
	orders := []struct {
		name string
		list *List
	}{
		{"near first", NewList(near, far)},
		{"far first", NewList(far, near)},
	}

	for _, tt := range orders {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tt.list.Hit(ray)
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-4.0) > 1e-9 {
				t.Errorf("Expected nearest hit at t=4, got t=%f", hit.T)
			}
			if hit.Material != core.MaterialID(1) {
				t.Errorf("Expected material 1 from the near sphere, got %d", hit.Material)
			}
		})
	}
}

func TestList_Hit_Empty(t *testing.T) {
	list := NewList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if hit, isHit := list.Hit(ray); isHit {
		t.Errorf("Expected miss on empty list, got hit at t=%f", hit.T)
	}
}

func TestList_Hit_Nested(t *testing.T) {
	inner := NewList(NewSphere(core.NewVec3(0, 0, 0), 1.0, core.MaterialID(7)))
	outer := NewList(NewList(inner))
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	hit, isHit := outer.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit through nested lists, but got miss")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("Expected t=4, got t=%f", hit.T)
	}
	if hit.Material != core.MaterialID(7) {
		t.Errorf("Expected material 7, got %d", hit.Material)
	}
}

func TestList_Hit_DoesNotMutateCallerRay(t *testing.T) {
	list := NewList(
		NewSphere(core.NewVec3(0, 0, 0), 1.0, core.MaterialID(0)),
		NewSphere(core.NewVec3(0, 0, 2), 1.0, core.MaterialID(0)),
	)
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	if _, isHit := list.Hit(ray); !isHit {
		t.Fatal("Expected hit")
	}

	if !math.IsInf(ray.TMax, 1) {
		t.Errorf("List.Hit tightened the caller's interval: TMax = %f", ray.TMax)
	}
}

func TestList_Hit_TightenedIntervalSkipsFartherHits(t *testing.T) {
	// The second sphere is intersectable on its own but lies behind the
	// first hit, so the tightened interval must exclude it.
	blocker := NewSphere(core.NewVec3(0, 0, 0), 1.0, core.MaterialID(1))
	behind := NewSphere(core.NewVec3(0, 0, 10), 1.0, core.MaterialID(2))
	list := NewList(blocker, behind)

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	hit, isHit := list.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.Material != core.MaterialID(1) {
		t.Errorf("Expected the blocker's material 1, got %d", hit.Material)
	}
}

func TestList_BoundingBox(t *testing.T) {
	list := NewList(
		NewSphere(core.NewVec3(-2, 0, 0), 1.0, core.MaterialID(0)),
		NewSphere(core.NewVec3(3, 1, -1), 2.0, core.MaterialID(0)),
	)

	box := list.BoundingBox()
	if !vecsClose(box.Min, core.NewVec3(-3, -1, -3)) {
		t.Errorf("Expected min (-3,-1,-3), got %v", box.Min)
	}
	if !vecsClose(box.Max, core.NewVec3(5, 3, 1)) {
		t.Errorf("Expected max (5,3,1), got %v", box.Max)
	}
}

func TestList_BoundingBox_Empty(t *testing.T) {
	box := NewList().BoundingBox()

	var zero core.AABB
	if !vecsClose(box.Min, zero.Min) || !vecsClose(box.Max, zero.Max) {
		t.Errorf("Expected zero box for empty list, got %+v", box)
	}
}

func TestList_BoundingBox_Nested(t *testing.T) {
	inner := NewList(NewSphere(core.NewVec3(5, 5, 5), 1.0, core.MaterialID(0)))
	outer := NewList(NewSphere(core.NewVec3(-1, -1, -1), 1.0, core.MaterialID(0)), inner)

	box := outer.BoundingBox()
	if !vecsClose(box.Min, core.NewVec3(-2, -2, -2)) {
		t.Errorf("Expected min (-2,-2,-2), got %v", box.Min)
	}
	if !vecsClose(box.Max, core.NewVec3(6, 6, 6)) {
		t.Errorf("Expected max (6,6,6), got %v", box.Max)
	}
}
