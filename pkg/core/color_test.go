package core

import (
	"math"
	"testing"
)

func colorsClose(a, b Color) bool {
	return math.Abs(a.R-b.R) < testEpsilon &&
		math.Abs(a.G-b.G) < testEpsilon &&
		math.Abs(a.B-b.B) < testEpsilon
}

func TestColorArithmetic(t *testing.T) {
	a := NewColor(0.1, 0.2, 0.3)
	b := NewColor(0.4, 0.5, 0.6)

	if got := a.Add(b); !colorsClose(got, NewColor(0.5, 0.7, 0.9)) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Scale(2); !colorsClose(got, NewColor(0.2, 0.4, 0.6)) {
		t.Errorf("Scale = %+v", got)
	}
	if got := a.Mul(b); !colorsClose(got, NewColor(0.04, 0.1, 0.18)) {
		t.Errorf("Mul = %+v", got)
	}
}

func TestColorLerp(t *testing.T) {
	white := NewColor(1, 1, 1)
	blue := NewColor(0.5, 0.7, 1)

	if got := white.Lerp(blue, 0); !colorsClose(got, white) {
		t.Errorf("Lerp(0) = %+v, want white", got)
	}
	if got := white.Lerp(blue, 1); !colorsClose(got, blue) {
		t.Errorf("Lerp(1) = %+v, want blue", got)
	}
	if got := white.Lerp(blue, 0.5); !colorsClose(got, NewColor(0.75, 0.85, 1)) {
		t.Errorf("Lerp(0.5) = %+v", got)
	}
}

func TestColorGammaClamp(t *testing.T) {
	c := NewColor(0.25, 1, 4)

	if got := c.Gamma(); !colorsClose(got, NewColor(0.5, 1, 2)) {
		t.Errorf("Gamma = %+v", got)
	}
	if got := c.Clamp(); !colorsClose(got, NewColor(0.25, 1, 1)) {
		t.Errorf("Clamp = %+v", got)
	}
	if got := NewColor(-0.5, 0.5, 0.5).Clamp(); !colorsClose(got, NewColor(0, 0.5, 0.5)) {
		t.Errorf("Clamp negative = %+v", got)
	}
}
