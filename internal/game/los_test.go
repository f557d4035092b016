package game

import (
	"math"
	"testing"
)

func box(x, y, w, h float64) Polygon {
	return RectPolygon(Vec2{x, y}, Vec2{x + w, y + h})
}

func TestLOS_ClearLine(t *testing.T) {
	if !HasLineOfSight(Vec2{0, 0}, Vec2{100, 100}, nil) {
		t.Fatal("expected clear LOS with no obstacles")
	}
}

func TestLOS_BlockedByWall(t *testing.T) {
	obs := ObstacleSet{box(40, 0, 20, 200)}
	if HasLineOfSight(Vec2{0, 100}, Vec2{200, 100}, obs) {
		t.Fatal("expected LOS blocked by wall")
	}
}

func TestLOS_WallBeyondEndpoint_NotBlocked(t *testing.T) {
	obs := ObstacleSet{box(300, 0, 64, 64)}
	if !HasLineOfSight(Vec2{0, 32}, Vec2{200, 32}, obs) {
		t.Fatal("wall beyond endpoint should not block LOS")
	}
}

func TestLOS_DiagonalRay_Blocked(t *testing.T) {
	obs := ObstacleSet{box(80, 80, 40, 40)}
	if HasLineOfSight(Vec2{0, 0}, Vec2{200, 200}, obs) {
		t.Fatal("diagonal ray should be blocked by wall")
	}
}

func TestLOS_ZeroLength(t *testing.T) {
	obs := ObstacleSet{box(0, 0, 100, 100)}
	// Same start and end: should not panic.
	_ = HasLineOfSight(Vec2{50, 50}, Vec2{50, 50}, obs)
}

func TestRayAABBHitT_EntryParameter(t *testing.T) {
	tHit, ok := rayAABBHitT(0, 5, 100, 5, 40, 0, 60, 10)
	if !ok {
		t.Fatal("expected hit")
	}
	if math.Abs(tHit-0.4) > 1e-9 {
		t.Fatalf("expected t=0.4, got %.4f", tHit)
	}
}

func TestRayIntersectsAABB_Miss(t *testing.T) {
	if rayIntersectsAABB(0, 0, 0, 100, 50, 0, 150, 100) {
		t.Fatal("ray to the left of AABB should not intersect")
	}
}

func TestSegmentCircleHitT(t *testing.T) {
	tHit, ok := segmentCircleHitT(Vec2{0, 0}, Vec2{100, 0}, Vec2{50, 0}, 10)
	if !ok {
		t.Fatal("expected circle hit")
	}
	if math.Abs(tHit-0.4) > 1e-9 {
		t.Fatalf("expected t=0.4, got %.4f", tHit)
	}
	if _, ok := segmentCircleHitT(Vec2{0, 20}, Vec2{100, 20}, Vec2{50, 0}, 10); ok {
		t.Fatal("segment passing above circle should miss")
	}
}

func TestClipSight(t *testing.T) {
	obs := ObstacleSet{box(48, -48, 32, 96)}
	if got := clipSight(Vec2{0, 0}, Vec2{40, 0}, obs, 1); got != (Vec2{40, 0}) {
		t.Fatalf("clear segment should keep its end, got %v", got)
	}
	if got := clipSight(Vec2{0, 0}, Vec2{60, 0}, obs, 1); !got.Equal(Vec2{47, 0}, 1e-9) {
		t.Fatalf("expected end pulled back to 47, got %v", got)
	}
	if got := clipSight(Vec2{47.5, 0}, Vec2{60, 0}, obs, 1); got != (Vec2{47.5, 0}) {
		t.Fatalf("wall within the margin should give the start, got %v", got)
	}
}
