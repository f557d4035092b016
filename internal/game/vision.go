package game

import "math"

const (
	// Default perception parameters.
	defaultVisualRange  = 500.0 // pixels
	defaultHalfAngleDeg = 25.0
)

// PerceptionState is what one enemy currently knows about the target.
type PerceptionState struct {
	VisualRange float64
	HalfAngle   float64 // radians, either side of facing

	Visible      bool
	LastSeenPos  Vec2
	LastSeenDir  float64 // radians, direction from the enemy at the last sighting
	LastSeenTime float64 // seconds of sim time

	initialised bool
}

// NewPerceptionState creates a perception state with the given range and
// half-angle in degrees.
func NewPerceptionState(visualRange, halfAngleDeg float64) PerceptionState {
	return PerceptionState{
		VisualRange: visualRange,
		HalfAngle:   halfAngleDeg * math.Pi / 180.0,
	}
}

// SinceSeen returns how long ago the target was last seen.
func (p *PerceptionState) SinceSeen(now float64) float64 {
	return now - p.LastSeenTime
}

// Facing is a heading with a bounded turn rate.
type Facing struct {
	Angle    float64 // radians in (-pi, pi], 0 = right, pi/2 = down
	TurnRate float64 // radians per second
}

// Vec returns the unit vector of the heading.
func (f Facing) Vec() Vec2 { return FromAngle(f.Angle) }

// TurnToward rotates the heading toward target by at most maxStep radians,
// always through the shorter arc.
func (f *Facing) TurnToward(target, maxStep float64) {
	diff := normalizeAngle(target - f.Angle)
	if math.Abs(diff) <= maxStep {
		f.Angle = normalizeAngle(target)
	} else if diff > 0 {
		f.Angle = normalizeAngle(f.Angle + maxStep)
	} else {
		f.Angle = normalizeAngle(f.Angle - maxStep)
	}
}

// InCone returns true if pt lies within the perception cone of an observer
// at origin facing heading. Range is inclusive; a zero-distance point is not
// in any cone.
func (p *PerceptionState) InCone(origin Vec2, heading float64, pt Vec2) bool {
	d := pt.Sub(origin)
	dist2 := d.Len2()
	if dist2 > p.VisualRange*p.VisualRange || dist2 < 1e-12 {
		return false
	}
	diff := normalizeAngle(d.Angle() - heading)
	return math.Abs(diff) <= p.HalfAngle
}

// Perceive updates e's perception of target for the tick at time now. The
// cone test runs first; only targets inside it cost a raycast. A nil target
// leaves the state untouched.
func Perceive(e *Enemy, target *Target, ray Raycaster, now float64) {
	if target == nil {
		return
	}
	p := &e.Perception
	if !p.initialised {
		p.LastSeenTime = now
		p.initialised = true
	}

	if !p.InCone(e.Pos, e.Facing.Angle, target.Pos) {
		p.Visible = false
		return
	}

	d := target.Pos.Sub(e.Pos)
	self := e.Collider
	hit, ok := ray.CastRay(e.Pos, d, p.VisualRange, func(id ColliderID) bool {
		return id != self
	})
	if !ok || hit.Collider != target.Collider {
		p.Visible = false
		return
	}
	p.Visible = true
	p.LastSeenPos = target.Pos
	p.LastSeenDir = HeadingTo(e.Pos, target.Pos)
	p.LastSeenTime = now
}

// HeadingTo returns the angle in radians from a toward b.
func HeadingTo(a, b Vec2) float64 {
	return b.Sub(a).Angle()
}

// normalizeAngle wraps an angle to (-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
