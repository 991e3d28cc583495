package material

import (
	"math/rand"

	"github.com/glintrender/glint/pkg/core"
)

// Emissive is a light source. It absorbs every incoming ray and contributes
// its emission instead.
type Emissive struct {
	Emission core.Color
}

// NewEmissive creates a light-emitting material. Components above 1 are
// legitimate and make brighter lights.
func NewEmissive(emission core.Color) *Emissive {
	return &Emissive{Emission: emission}
}

// Scatter always reports false; lights do not bounce rays.
func (e *Emissive) Scatter(rayIn core.Ray, hit *core.Hit, rng *rand.Rand) (Scatter, bool) {
	return Scatter{}, false
}

// Emitted returns the emission color.
func (e *Emissive) Emitted() core.Color {
	return e.Emission
}
