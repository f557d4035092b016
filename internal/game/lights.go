package game

import (
	"image/color"
	"math"
)

// LightKind distinguishes omni lights from cones.
type LightKind int

const (
	LightPoint LightKind = iota
	LightSpot
)

// Light is a visibility-polygon source. A light with Owner >= 0 rides on
// that enemy: it sits EyeOffset ahead of the enemy along its facing and turns
// with it.
type Light struct {
	Kind      LightKind
	Owner     int // enemy index, or -1 for a fixed light
	Pos       Vec2
	Facing    float64 // fixed lights only
	Reach     float64
	ConeAngle float64 // full cone width in radians, spotlights only
	Color     color.RGBA
	Spin      float64 // radians per second, fixed lights only
}

// LightView is one light resolved for drawing.
type LightView struct {
	Owner     int
	Kind      LightKind
	Center    Vec2
	Facing    float64
	ConeAngle float64
	Reach     float64
	Color     color.RGBA
	Polygon   Polygon
	// InView is false when the reach circle misses the viewport; Polygon is
	// then nil.
	InView bool
	// Visible mirrors the owner's perception so the cone can be tinted.
	Visible bool
}

// EnemyView is a read-only snapshot of one enemy.
type EnemyView struct {
	Index    int
	Pos      Vec2
	Facing   float64
	Mode     BehaviorMode
	Visible  bool
	LastSeen Vec2
	Path     []Vec2
	Goal     Vec2
	Moving   bool
}

// RenderFrame is everything the render collaborator needs for one frame.
type RenderFrame struct {
	Tick     int
	Time     float64
	Static   []Polygon
	Blockers []Polygon
	Enemies  []EnemyView
	Target   *Target
	Lights   []LightView
}

// CircleIntersectsRect reports whether the circle (c, r) overlaps or touches
// the rectangle with opposite corners a and b.
func CircleIntersectsRect(r float64, c, a, b Vec2) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	closest := Vec2{clamp(c.X, minX, maxX), clamp(c.Y, minY, maxY)}
	return c.Dist2(closest) <= r*r
}

// resolveLight places l for this tick.
func (w *World) resolveLight(l Light) LightView {
	v := LightView{
		Owner:     l.Owner,
		Kind:      l.Kind,
		Center:    l.Pos,
		Facing:    l.Facing,
		ConeAngle: l.ConeAngle,
		Reach:     l.Reach,
		Color:     l.Color,
	}
	if l.Owner >= 0 && l.Owner < len(w.Enemies) {
		e := &w.Enemies[l.Owner]
		v.Facing = e.Facing.Angle
		eye := e.Pos.Add(e.Facing.Vec().Scale(w.Tuning.Lights.EyeOffset))
		// Keep the eye out of walls when the enemy hugs one.
		v.Center = clipSight(e.Pos, eye, w.snapshot, 1)
		v.Visible = e.Perception.Visible
	}
	return v
}

// EnemySpotlight returns the default vision-cone light for enemy index i,
// matching its perception cone.
func EnemySpotlight(i int, p PerceptionState) Light {
	return Light{
		Kind:      LightSpot,
		Owner:     i,
		Reach:     p.VisualRange,
		ConeAngle: 2 * p.HalfAngle,
		Color:     color.RGBA{R: 0xff, G: 0xf4, B: 0xc0, A: 0xff},
	}
}

// Fan samples the light's visibility polygon along steps rays and clamps each
// to Reach. Spotlights start and end at the centre so the result is a wedge.
func (v LightView) Fan(steps int) Polygon {
	if len(v.Polygon) < 3 || steps < 1 {
		return nil
	}
	segs := appendEdges(nil, v.Polygon)
	cast := func(a float64) Vec2 {
		dir := FromAngle(a)
		t, ok := nearestHit(v.Center, dir, segs)
		if !ok || t > v.Reach {
			t = v.Reach
		}
		return v.Center.Add(dir.Scale(t))
	}

	if v.Kind == LightPoint {
		out := make(Polygon, 0, steps)
		for i := 0; i < steps; i++ {
			out = append(out, cast(2*math.Pi*float64(i)/float64(steps)))
		}
		return out
	}
	out := make(Polygon, 0, steps+2)
	out = append(out, v.Center)
	start := v.Facing - v.ConeAngle/2
	for i := 0; i <= steps; i++ {
		out = append(out, cast(start+v.ConeAngle*float64(i)/float64(steps)))
	}
	return out
}
