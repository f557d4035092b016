package game

import "math"

// PathCache is an enemy's current movement goal and the path toward it.
type PathCache struct {
	Target Vec2
	Moving bool
	Path   []Vec2
	Index  int
}

// SetGoal points the cache at a new target and enables movement. The old
// path is kept; Mover decides whether it is stale.
func (pc *PathCache) SetGoal(target Vec2) {
	pc.Target = target
	pc.Moving = true
}

// Stop disables movement and drops the path.
func (pc *PathCache) Stop() {
	pc.Moving = false
	pc.Path = nil
	pc.Index = 0
}

// Waypoint returns the current waypoint, or false when the path is spent.
func (pc *PathCache) Waypoint() (Vec2, bool) {
	if pc.Index < 0 || pc.Index >= len(pc.Path) {
		return Vec2{}, false
	}
	return pc.Path[pc.Index], true
}

func (pc *PathCache) stale(threshold float64) bool {
	if len(pc.Path) == 0 || pc.Index >= len(pc.Path) {
		return true
	}
	return pc.Path[len(pc.Path)-1].Dist(pc.Target) > threshold
}

// MoveResult reports what one Mover.Update did, for the sim log.
type MoveResult struct {
	Replanned   bool
	Unreachable bool
	Arrived     bool
}

// Mover follows cached paths with tank-like steering: the heading turns at
// a bounded rate and speed falls off sharply while it is misaligned.
type Mover struct {
	Tuning MovementTuning
}

// Update advances e along its path and writes e.Velocity.
func (m Mover) Update(e *Enemy, pf PathFinder, dt float64) MoveResult {
	var res MoveResult
	pc := &e.Path
	e.Velocity = Vec2{}
	if !pc.Moving {
		return res
	}
	if e.Pos.Dist(pc.Target) <= m.Tuning.ArrivalRadius {
		pc.Stop()
		res.Arrived = true
		return res
	}

	if pc.stale(m.Tuning.StaleDistance) {
		path, ok := pf.FindPath(e.Pos, pc.Target)
		res.Replanned = true
		if !ok {
			pc.Stop()
			res.Unreachable = true
			return res
		}
		// path[0] is the cell the enemy stands in; steering back to its
		// centre would turn it around.
		pc.Path = path
		pc.Index = 1
	}

	for {
		wp, ok := pc.Waypoint()
		if !ok || e.Pos.Dist(wp) > m.Tuning.WaypointRadius {
			break
		}
		pc.Index++
	}
	wp, ok := pc.Waypoint()
	if !ok {
		// Path spent but not within arrival radius: head straight for the
		// target and let the next tick replan if it drifted.
		wp = pc.Target
	}

	toWp := wp.Sub(e.Pos).Normalize(e.Facing.Vec())
	e.Facing.TurnToward(toWp.Angle(), e.Facing.TurnRate*dt)

	face := e.Facing.Vec()
	align := clamp(toWp.Dot(face), 0, 1)
	e.Velocity = face.Scale(e.Speed * math.Pow(align, m.Tuning.AlignPower))
	return res
}
