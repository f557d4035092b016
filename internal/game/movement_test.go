package game

import (
	"math"
	"testing"
)

// stubPaths records calls and returns a fixed path.
type stubPaths struct {
	path  []Vec2
	ok    bool
	calls int
}

func (s *stubPaths) FindPath(from, to Vec2) ([]Vec2, bool) {
	s.calls++
	return s.path, s.ok
}

func moverFixture() (Mover, Enemy) {
	tun := DefaultTuning()
	e := NewEnemy(0, 1, Vec2{}, 0, tun, 1)
	e.Speed = 100
	e.Facing.TurnRate = math.Pi
	return Mover{Tuning: tun.Movement}, e
}

func TestMover_IdleWhenNotMoving(t *testing.T) {
	m, e := moverFixture()
	e.Velocity = Vec2{5, 5}
	pf := &stubPaths{}
	m.Update(&e, pf, 0.1)
	if e.Velocity != (Vec2{}) || pf.calls != 0 {
		t.Fatal("non-moving enemy should stay put without pathing")
	}
}

func TestMover_ArrivalStops(t *testing.T) {
	m, e := moverFixture()
	e.Path.SetGoal(Vec2{10, 0})
	res := m.Update(&e, &stubPaths{}, 0.1)
	if !res.Arrived || e.Path.Moving || e.Velocity != (Vec2{}) {
		t.Fatalf("within arrival radius should stop: %+v moving=%v", res, e.Path.Moving)
	}
}

func TestMover_AlignedFullSpeed(t *testing.T) {
	m, e := moverFixture()
	pf := &stubPaths{path: []Vec2{{0, 0}, {32, 0}, {64, 0}, {96, 0}}, ok: true}
	e.Path.SetGoal(Vec2{96, 0})
	res := m.Update(&e, pf, 0.1)
	if !res.Replanned || pf.calls != 1 {
		t.Fatal("empty cache should trigger a replan")
	}
	// The start waypoint is inside the waypoint radius, so it is skipped.
	if e.Path.Index != 1 {
		t.Fatalf("expected index 1, got %d", e.Path.Index)
	}
	if !e.Velocity.Equal(Vec2{100, 0}, 1e-9) {
		t.Fatalf("aligned enemy should move at full speed, got %v", e.Velocity)
	}

	m.Update(&e, pf, 0.1)
	if pf.calls != 1 {
		t.Fatal("a fresh path should be reused")
	}
}

func TestMover_SlowsWhileTurning(t *testing.T) {
	m, e := moverFixture()
	e.Facing.TurnRate = 0.5 // rad/s
	pf := &stubPaths{path: []Vec2{{0, 0}, {0, 64}}, ok: true}
	e.Path.SetGoal(Vec2{0, 64})
	m.Update(&e, pf, 0.1)

	// Waypoint is 90 degrees off; after a 0.05 rad turn the alignment is
	// sin(0.05), and speed scales with its cube.
	if math.Abs(e.Facing.Angle-0.05) > 1e-9 {
		t.Fatalf("expected bounded turn to 0.05, got %.4f", e.Facing.Angle)
	}
	want := 100 * math.Pow(math.Sin(0.05), 3)
	if math.Abs(e.Velocity.Len()-want) > 1e-9 {
		t.Fatalf("expected speed %.6f, got %.6f", want, e.Velocity.Len())
	}
}

func TestMover_BehindGivesZeroSpeed(t *testing.T) {
	m, e := moverFixture()
	e.Facing.TurnRate = 0.1
	pf := &stubPaths{path: []Vec2{{0, 0}, {-64, 0}}, ok: true}
	e.Path.SetGoal(Vec2{-64, 0})
	m.Update(&e, pf, 0.1)
	if e.Velocity.Len() != 0 {
		t.Fatalf("waypoint behind should give zero speed, got %v", e.Velocity)
	}
}

func TestMover_ReplansWhenTargetDrifts(t *testing.T) {
	m, e := moverFixture()
	pf := &stubPaths{path: []Vec2{{0, 0}, {32, 0}, {64, 0}}, ok: true}
	e.Path.SetGoal(Vec2{64, 0})
	m.Update(&e, pf, 0.1)

	e.Path.SetGoal(Vec2{64 + 30, 0}) // within the staleness threshold
	m.Update(&e, pf, 0.1)
	if pf.calls != 1 {
		t.Fatalf("small drift should not replan, calls=%d", pf.calls)
	}
	e.Path.SetGoal(Vec2{64 + 50, 0})
	m.Update(&e, pf, 0.1)
	if pf.calls != 2 {
		t.Fatalf("large drift should replan, calls=%d", pf.calls)
	}
}

func TestMover_UnreachableStaysPut(t *testing.T) {
	m, e := moverFixture()
	e.Path.SetGoal(Vec2{500, 500})
	res := m.Update(&e, &stubPaths{ok: false}, 0.1)
	if !res.Unreachable || e.Path.Moving || e.Velocity != (Vec2{}) {
		t.Fatalf("unreachable goal should stop the enemy: %+v", res)
	}
}

func TestMover_ReplanFromOffCentreKeepsHeading(t *testing.T) {
	g := ParseGrid("corridor\n############\n#          #\n############\n", 32)
	pf := NewPathfinder(g)
	m, e := moverFixture()
	e.Pos = g.GridToWorld(GridPos{2, 1}).Add(Vec2{14, 0})
	e.Path.SetGoal(g.GridToWorld(GridPos{9, 1}))

	dt := 1.0 / 60
	for tick := 0; tick < 40; tick++ {
		if tick == 15 {
			// Goal drifts past the staleness threshold mid-walk.
			e.Path.SetGoal(g.GridToWorld(GridPos{10, 1}))
		}
		start := e.Pos
		res := m.Update(&e, pf, dt)
		if (tick == 0 || tick == 15) && !res.Replanned {
			t.Fatalf("tick %d: expected a replan", tick)
		}
		if e.Velocity.X <= 0 {
			t.Fatalf("tick %d: enemy at %v stalled or reversed, vel=%v facing=%.3f", tick, start, e.Velocity, e.Facing.Angle)
		}
		if math.Abs(e.Facing.Angle) > 1e-9 {
			t.Fatalf("tick %d: enemy turned away from the corridor, facing=%.3f", tick, e.Facing.Angle)
		}
		e.Pos = e.Pos.Add(e.Velocity.Scale(dt))
	}
}
