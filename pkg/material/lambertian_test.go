package material

import (
	"math/rand"
	"testing"

	"github.com/glintrender/glint/pkg/core"
)

func TestLambertian_ScatterHemisphere(t *testing.T) {
	albedo := core.NewColor(0.7, 0.3, 0.2)
	mat := NewLambertian(albedo)
	rng := rand.New(rand.NewSource(42))

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := &core.Hit{
		T:        1,
		Position: core.NewVec3(0, 0, 0),
		Normal:   core.NewVec3(0, 0, 1),
	}

	for i := 0; i < 100; i++ {
		scatter, didScatter := mat.Scatter(rayIn, hit, rng)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Ray.Direction.Dot(hit.Normal) <= 0 {
			t.Fatalf("Scattered direction %v below the surface", scatter.Ray.Direction)
		}
		if scatter.Attenuation != albedo {
			t.Fatalf("Attenuation %+v, want albedo %+v", scatter.Attenuation, albedo)
		}
	}
}

func TestLambertian_ScatterFromBehind(t *testing.T) {
	mat := NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	rng := rand.New(rand.NewSource(42))

	// Ray arrives along the outward normal, so it strikes the back side;
	// the bounce hemisphere must flip with it.
	rayIn := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	hit := &core.Hit{
		Position: core.NewVec3(0, 0, 0),
		Normal:   core.NewVec3(0, 0, 1),
	}

	for i := 0; i < 100; i++ {
		scatter, didScatter := mat.Scatter(rayIn, hit, rng)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}
		if scatter.Ray.Direction.Dot(hit.Normal) >= 0 {
			t.Fatalf("Back-side bounce %v escaped through the surface", scatter.Ray.Direction)
		}
	}
}

func TestLambertian_ScatterRayStartsAtHit(t *testing.T) {
	mat := NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	rng := rand.New(rand.NewSource(1))

	rayIn := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	hit := &core.Hit{
		Position: core.NewVec3(1, 2, 3),
		Normal:   core.NewVec3(0, 1, 0),
	}

	scatter, _ := mat.Scatter(rayIn, hit, rng)
	if scatter.Ray.Origin != hit.Position {
		t.Errorf("Scattered ray origin %v, want hit position %v", scatter.Ray.Origin, hit.Position)
	}
	if scatter.Ray.TMin != core.Epsilon {
		t.Errorf("Scattered ray TMin %v, want %v", scatter.Ray.TMin, core.Epsilon)
	}
}

func TestLambertian_EmitsNothing(t *testing.T) {
	mat := NewLambertian(core.NewColor(0.9, 0.9, 0.9))
	if got := mat.Emitted(); got != (core.Color{}) {
		t.Errorf("Expected zero emission, got %+v", got)
	}
}
