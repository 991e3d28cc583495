// Package material maps the opaque handles carried by geometry to shading
// models. Geometry stores core.MaterialID values; the renderer resolves
// them here when a hit is consumed.
package material

import (
	"fmt"
	"math/rand"

	"github.com/glintrender/glint/pkg/core"
)

// Scatter is the outcome of a surface interaction: the follow-up ray and
// the attenuation applied to whatever light that ray returns.
type Scatter struct {
	Ray         core.Ray
	Attenuation core.Color
}

// Material decides how light leaves a surface.
type Material interface {
	// Scatter produces the outgoing ray for a hit, or reports false when
	// the surface absorbs the ray. Core normals are always outward, so
	// implementations derive entering/leaving from the sign of
	// rayIn.Direction · hit.Normal.
	Scatter(rayIn core.Ray, hit *core.Hit, rng *rand.Rand) (Scatter, bool)

	// Emitted is the light the surface adds on its own, zero for
	// everything but emissive surfaces.
	Emitted() core.Color
}

// Table is the append-only registry behind material handles. Handles are
// indexes into the table; geometry never holds the materials themselves.
type Table struct {
	materials []Material
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add registers a material and returns its handle.
func (t *Table) Add(m Material) core.MaterialID {
	t.materials = append(t.materials, m)
	return core.MaterialID(len(t.materials) - 1)
}

// Lookup resolves a handle. Handles not issued by this table are a
// programming error and panic.
func (t *Table) Lookup(id core.MaterialID) Material {
	if id < 0 || int(id) >= len(t.materials) {
		panic(fmt.Sprintf("material: unknown id %d", id))
	}
	return t.materials[id]
}

// Len reports how many materials are registered.
func (t *Table) Len() int {
	return len(t.materials)
}
