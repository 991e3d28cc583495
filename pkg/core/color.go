package core

import (
	"math"
)

// Color is linear RGB with unclamped float components. Tone mapping and
// gamma happen once at output time.
type Color struct {
	R, G, B float64
}

// NewColor returns a color from linear RGB components.
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns c + other component-wise.
func (c Color) Add(other Color) Color {
	return Color{R: c.R + other.R, G: c.G + other.G, B: c.B + other.B}
}

// Scale returns c scaled by s.
func (c Color) Scale(s float64) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Mul returns the component-wise product, the usual attenuation operation.
func (c Color) Mul(other Color) Color {
	return Color{R: c.R * other.R, G: c.G * other.G, B: c.B * other.B}
}

// Lerp blends c toward other by t in [0,1].
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// Gamma applies gamma-2 encoding.
func (c Color) Gamma() Color {
	return Color{
		R: math.Sqrt(math.Max(c.R, 0)),
		G: math.Sqrt(math.Max(c.G, 0)),
		B: math.Sqrt(math.Max(c.B, 0)),
	}
}

// Clamp limits each component to [0,1].
func (c Color) Clamp() Color {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	return Color{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B)}
}
