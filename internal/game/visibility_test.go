package game

import (
	"math"
	"math/rand"
	"testing"
)

// onSomeEdge reports whether v lies on an obstacle edge or the cap square.
func onSomeEdge(v, observer Vec2, obs ObstacleSet, bound float64) bool {
	const eps = 1e-6
	lo := observer.Sub(Vec2{bound, bound})
	hi := observer.Add(Vec2{bound, bound})
	if math.Abs(v.X-lo.X) < eps || math.Abs(v.X-hi.X) < eps ||
		math.Abs(v.Y-lo.Y) < eps || math.Abs(v.Y-hi.Y) < eps {
		return true
	}
	for _, p := range obs {
		for i := range p {
			if pointSegmentDist(v, p[i], p[(i+1)%len(p)]) < eps {
				return true
			}
		}
	}
	return false
}

func TestVisibilityPolygon_NoObstaclesIsCapSquare(t *testing.T) {
	poly := VisibilityPolygon(Vec2{10, 20}, nil, 100)
	if len(poly) < 4 {
		t.Fatalf("expected at least the 4 cap corners, got %d vertices: %v", len(poly), poly)
	}
	for _, v := range poly {
		if !onSomeEdge(v, Vec2{10, 20}, nil, 100) {
			t.Fatalf("vertex %v is off the cap square", v)
		}
	}
	if a := poly.Area(); math.Abs(a-200*200) > 1e-6 {
		t.Fatalf("expected area 40000, got %.3f", a)
	}
	if !poly.Contains(Vec2{10, 20}) {
		t.Fatal("observer must be inside")
	}
}

func TestVisibilityPolygon_WallCastsShadow(t *testing.T) {
	obs := ObstacleSet{box(50, -10, 20, 20)}
	poly := VisibilityPolygon(Vec2{0, 0}, obs, 200)
	if !poly.Contains(Vec2{40, 0}) {
		t.Fatal("point in front of the wall should be visible")
	}
	if poly.Contains(Vec2{150, 0}) {
		t.Fatal("point behind the wall should be in shadow")
	}
	if !poly.Contains(Vec2{150, 100}) {
		t.Fatal("point beside the shadow should be visible")
	}
}

func TestVisibilityPolygon_Containment(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const bound = 300
	for trial := 0; trial < 40; trial++ {
		var obs ObstacleSet
		for i := 0; i < 6; i++ {
			obs = append(obs, box(rng.Float64()*400-200, rng.Float64()*400-200, 10+rng.Float64()*60, 10+rng.Float64()*60))
		}
		observer := Vec2{rng.Float64()*40 - 20, rng.Float64()*40 - 20}
		poly := VisibilityPolygon(observer, obs, bound)
		if len(poly) < 3 {
			t.Fatalf("trial %d: polygon has %d vertices", trial, len(poly))
		}
		for _, v := range poly {
			if !onSomeEdge(v, observer, obs, bound) {
				t.Fatalf("trial %d: vertex %v is on no edge", trial, v)
			}
		}
		if !poly.Contains(observer) {
			t.Fatalf("trial %d: observer %v outside its polygon", trial, observer)
		}
	}
}

func TestVisibilityPolygon_ObserverOnEdge(t *testing.T) {
	obs := ObstacleSet{box(0, 0, 40, 40)}
	for _, o := range []Vec2{{0, 20}, {0, 0}, {40, 40}} {
		poly := VisibilityPolygon(o, obs, 100)
		if len(poly) < 3 {
			t.Fatalf("observer %v: degenerate polygon %v", o, poly)
		}
		lo, hi := poly.Bounds()
		if lo.X < o.X-100-1e-6 || hi.X > o.X+100+1e-6 || lo.Y < o.Y-100-1e-6 || hi.Y > o.Y+100+1e-6 {
			t.Fatalf("observer %v: polygon escapes the cap: %v..%v", o, lo, hi)
		}
		if !poly.Contains(o) {
			t.Fatalf("observer %v should be on or inside its polygon", o)
		}
	}
}

func TestVisibilityPolygon_SharedSeamNoSliver(t *testing.T) {
	// Two rectangles sharing the edge x=60 must shade like one rectangle.
	split := ObstacleSet{box(40, -20, 20, 40), box(60, -20, 20, 40)}
	whole := ObstacleSet{box(40, -20, 40, 40)}
	o := Vec2{0, 0}
	a := VisibilityPolygon(o, split, 200)
	b := VisibilityPolygon(o, whole, 200)
	if math.Abs(a.Area()-b.Area()) > 1e-3 {
		t.Fatalf("seam changed the visible area: %.4f vs %.4f", a.Area(), b.Area())
	}
	for _, p := range []Vec2{{70, 0}, {100, 0}, {100, 5}, {100, -5}} {
		if a.Contains(p) {
			t.Fatalf("light leaks through the seam at %v", p)
		}
	}
}

func TestVisibilityPolygon_CullsFarObstacles(t *testing.T) {
	near := ObstacleSet{box(30, -5, 10, 10)}
	far := append(ObstacleSet{box(5000, 5000, 10, 10)}, near...)
	a := VisibilityPolygon(Vec2{}, near, 100)
	b := VisibilityPolygon(Vec2{}, far, 100)
	if len(a) != len(b) {
		t.Fatalf("far obstacle changed the polygon: %d vs %d vertices", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i], 1e-9) {
			t.Fatalf("vertex %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestVisibilityPolygon_Deterministic(t *testing.T) {
	obs := ObstacleSet{box(20, 20, 30, 30), box(-60, 10, 20, 50), box(10, -80, 60, 10)}
	first := VisibilityPolygon(Vec2{1, 2}, obs, 150)
	for i := 0; i < 5; i++ {
		again := VisibilityPolygon(Vec2{1, 2}, obs, 150)
		if len(again) != len(first) {
			t.Fatalf("run %d: vertex count changed", i)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d: vertex %d changed", i, j)
			}
		}
	}
}

func TestVisibilityPolygon_NoConsecutiveDuplicates(t *testing.T) {
	obs := ObstacleSet{box(20, 20, 30, 30), box(50, 20, 30, 30)}
	poly := VisibilityPolygon(Vec2{}, obs, 150)
	for i := range poly {
		if poly[i].Equal(poly[(i+1)%len(poly)], visMergeEps) {
			t.Fatalf("duplicate vertex at %d: %v", i, poly[i])
		}
	}
}

func TestPolygonContains_Boundary(t *testing.T) {
	sq := box(0, 0, 10, 10)
	if !sq.Contains(Vec2{0, 5}) || !sq.Contains(Vec2{10, 10}) {
		t.Fatal("boundary points are inside")
	}
	if sq.Contains(Vec2{10.1, 5}) {
		t.Fatal("point outside reported inside")
	}
}
