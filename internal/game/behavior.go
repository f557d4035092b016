package game

import (
	"fmt"
	"math"
)

// BehaviorMode is derived from perception every tick and never stored.
type BehaviorMode int

const (
	ModeSearching BehaviorMode = iota
	ModeChasing
)

func (m BehaviorMode) String() string {
	switch m {
	case ModeChasing:
		return "chasing"
	case ModeSearching:
		return "searching"
	default:
		return "unknown"
	}
}

// Mode returns Chasing while the target is visible, Searching otherwise.
func Mode(p PerceptionState) BehaviorMode {
	if p.Visible {
		return ModeChasing
	}
	return ModeSearching
}

// SearchRadius returns the radius of the disc searched around the last
// sighting, growing linearly from min to max over ramp seconds.
func (bt BehaviorTuning) SearchRadius(elapsed float64) float64 {
	if bt.SearchRamp <= 0 {
		return bt.SearchRadiusMax
	}
	f := clamp(elapsed/bt.SearchRamp, 0, 1)
	return bt.SearchRadiusMin + (bt.SearchRadiusMax-bt.SearchRadiusMin)*f
}

// Behavior picks movement goals and speed from the derived mode.
type Behavior struct {
	Tuning BehaviorTuning
}

// Update applies one tick of chase or search to e at sim time now.
func (b Behavior) Update(e *Enemy, now, dt float64, tick int) {
	bt := b.Tuning
	p := &e.Perception

	if Mode(*p) == ModeChasing {
		e.Path.SetGoal(p.LastSeenPos)
		e.Speed = bt.AlertSpeedMin + e.rng.Float64()*(bt.AlertSpeedMax-bt.AlertSpeedMin)
		e.Facing.TurnRate = bt.AlertTurnMin + e.rng.Float64()*(bt.AlertTurnMax-bt.AlertTurnMin)
		e.dwell = 0
		return
	}

	e.Speed = bt.PatrolSpeed
	e.Facing.TurnRate = bt.PatrolTurn
	if e.Path.Moving {
		return
	}

	if e.dwell > 0 {
		step := e.Facing.TurnRate * dt
		e.Facing.TurnToward(e.Facing.Angle+step, step)
		e.dwell -= dt
		return
	}

	r := bt.SearchRadius(p.SinceSeen(now))
	ang := e.rng.Float64() * 2 * math.Pi
	dist := r * math.Sqrt(e.rng.Float64())
	goal := p.LastSeenPos.Add(FromAngle(ang).Scale(dist))
	e.Path.SetGoal(goal)
	e.dwell = bt.SearchDwell
	e.note(tick, "search", "new_point", fmt.Sprintf("(%.0f,%.0f) r=%.0f", goal.X, goal.Y, r), r)
}
