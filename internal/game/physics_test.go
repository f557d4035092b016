package game

import (
	"math"
	"testing"
)

func TestKinematicWorld_CastRayNearestFirst(t *testing.T) {
	k := NewKinematicWorld([]Polygon{box(100, -10, 10, 20)})
	near := k.AddCircle(Vec2{50, 0}, 5)
	k.AddCircle(Vec2{200, 0}, 5)

	hit, ok := k.CastRay(Vec2{}, Vec2{1, 0}, 500, nil)
	if !ok || hit.Collider != near {
		t.Fatalf("expected nearest circle %d, got %+v", near, hit)
	}
	if math.Abs(hit.Distance-45) > 1e-9 {
		t.Fatalf("expected distance 45, got %.4f", hit.Distance)
	}

	// Filtering the circle out exposes the wall behind it.
	hit, ok = k.CastRay(Vec2{}, Vec2{1, 0}, 500, func(id ColliderID) bool { return id != near })
	if !ok || hit.Collider != WallCollider {
		t.Fatalf("expected wall hit, got %+v", hit)
	}
	if !hit.Point.Equal(Vec2{100, 0}, 1e-9) {
		t.Fatalf("expected hit at (100,0), got %v", hit.Point)
	}
}

func TestKinematicWorld_CastRayMaxDist(t *testing.T) {
	k := NewKinematicWorld(nil)
	k.AddCircle(Vec2{300, 0}, 5)
	if _, ok := k.CastRay(Vec2{}, Vec2{2, 0}, 200, nil); ok {
		t.Fatal("collider beyond max distance should not be hit")
	}
}

func TestKinematicWorld_StepIntegrates(t *testing.T) {
	k := NewKinematicWorld(nil)
	id := k.AddCircle(Vec2{}, 5)
	k.SetVelocity(id, Vec2{60, -30})
	k.Step(0.5)
	if p, _ := k.Position(id); !p.Equal(Vec2{30, -15}, 1e-9) {
		t.Fatalf("expected (30,-15), got %v", p)
	}
}

func TestKinematicWorld_WallStopsBody(t *testing.T) {
	k := NewKinematicWorld([]Polygon{box(20, -50, 10, 100)})
	id := k.AddCircle(Vec2{}, 5)
	k.SetVelocity(id, Vec2{100, 10})
	for i := 0; i < 10; i++ {
		k.Step(0.1)
	}
	p, _ := k.Position(id)
	if p.X+5 > 20 {
		t.Fatalf("body pushed into wall: %v", p)
	}
	if p.Y <= 0 {
		t.Fatalf("body should still slide along the wall, got %v", p)
	}
}

func TestKinematicWorld_UnknownID(t *testing.T) {
	k := NewKinematicWorld(nil)
	if _, ok := k.Position(7); ok {
		t.Fatal("unknown collider should report no position")
	}
	k.SetVelocity(NoCollider, Vec2{1, 1}) // must not panic
}
