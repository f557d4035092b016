package game

import (
	"fmt"
	"math/rand"
)

const (
	enemyRadius  = 12.0
	targetRadius = 10.0
)

// Enemy is one AI agent. Enemies live in World.Enemies and are identified by
// their index there; each tick a worker owns exactly one slot.
type Enemy struct {
	Index    int
	Collider ColliderID
	Pos      Vec2

	Perception PerceptionState
	Path       PathCache
	Facing     Facing
	Speed      float64 // pixels per second

	// Velocity is the desired linear velocity produced this tick.
	Velocity Vec2

	rng     *rand.Rand
	dwell   float64 // remaining idle-scan time before the next search point
	pending []SimLogEntry
}

// NewEnemy creates an enemy at pos facing heading. Each enemy draws from its
// own seeded source so parallel ticks stay deterministic.
func NewEnemy(index int, collider ColliderID, pos Vec2, heading float64, tun Tuning, seed int64) Enemy {
	e := Enemy{
		Index:      index,
		Collider:   collider,
		Pos:        pos,
		Perception: NewPerceptionState(tun.Perception.VisualRange, tun.Perception.HalfAngleDeg),
		Facing:     Facing{Angle: normalizeAngle(heading), TurnRate: tun.Behavior.PatrolTurn},
		Speed:      tun.Behavior.PatrolSpeed,
		rng:        rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
	}
	// Searching before any sighting starts around the spawn.
	e.Perception.LastSeenPos = pos
	return e
}

// Label returns the short log label, e.g. "E3".
func (e *Enemy) Label() string {
	return fmt.Sprintf("E%d", e.Index)
}

// Mode returns the behaviour mode derived from the current perception.
func (e *Enemy) Mode() BehaviorMode {
	return Mode(e.Perception)
}

// note buffers a log event until the barrier flushes it.
func (e *Enemy) note(tick int, category, key, value string, num float64) {
	e.pending = append(e.pending, SimLogEntry{
		Tick:     tick,
		Agent:    e.Label(),
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   num,
	})
}

// Target is the single entity enemies try to detect.
type Target struct {
	Collider ColliderID
	Pos      Vec2
}

// Blocker is a transient occluder, such as a smoke cloud. A Blocker with a
// non-positive TTL never expires.
type Blocker struct {
	Pos      Vec2
	HalfSize float64
	TTL      float64 // seconds remaining
}
