package material

import (
	"testing"

	"github.com/glintrender/glint/pkg/core"
)

func TestTable_AddAndLookup(t *testing.T) {
	table := NewTable()

	red := NewLambertian(core.NewColor(0.9, 0.1, 0.1))
	mirror := NewMetal(core.NewColor(0.8, 0.8, 0.8), 0)

	redID := table.Add(red)
	mirrorID := table.Add(mirror)

	if redID == mirrorID {
		t.Fatal("Expected distinct handles for distinct materials")
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 materials, got %d", table.Len())
	}

	if got := table.Lookup(redID); got != Material(red) {
		t.Errorf("Lookup(%d) returned the wrong material", redID)
	}
	if got := table.Lookup(mirrorID); got != Material(mirror) {
		t.Errorf("Lookup(%d) returned the wrong material", mirrorID)
	}
}

func TestTable_LookupUnknownPanics(t *testing.T) {
	table := NewTable()
	table.Add(NewLambertian(core.NewColor(0.5, 0.5, 0.5)))

	for _, id := range []core.MaterialID{-1, 1, 99} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected Lookup(%d) to panic", id)
				}
			}()
			table.Lookup(id)
		}()
	}
}
