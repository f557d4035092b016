package game

import "math"

// ColliderID identifies a collider owned by the physics collaborator.
type ColliderID int

const (
	// NoCollider marks an entity without a physics body.
	NoCollider ColliderID = -1
	// WallCollider is reported for hits on static level geometry.
	WallCollider ColliderID = 0
)

// RayHit is the nearest collider struck by a ray.
type RayHit struct {
	Collider ColliderID
	Point    Vec2
	Distance float64
}

// Raycaster is the physics collaborator's query side. filter returns false
// for colliders the ray must pass through (typically the caster itself).
type Raycaster interface {
	CastRay(origin, dir Vec2, maxDist float64, filter func(ColliderID) bool) (RayHit, bool)
}

// VelocitySink is the physics collaborator's command side: the core writes
// a desired linear velocity per collider and never integrates position.
type VelocitySink interface {
	SetVelocity(id ColliderID, v Vec2)
}

// PositionSource reports where the physics collaborator has placed a body.
type PositionSource interface {
	Position(id ColliderID) (Vec2, bool)
}

// Physics bundles the three collaborator roles plus integration, which the
// driver (not the core) invokes after each World.Step.
type Physics interface {
	Raycaster
	VelocitySink
	PositionSource
	Step(dt float64)
}

type kinBody struct {
	pos    Vec2
	vel    Vec2
	radius float64
}

// KinematicWorld is a minimal pure-Go physics collaborator: static walls
// plus circular bodies that move at their commanded velocity. Raycasts only
// read state, so they are safe from the parallel phase as long as Step and
// SetVelocity run outside it.
type KinematicWorld struct {
	walls  ObstacleSet
	bodies []kinBody // index = ColliderID-1
}

// NewKinematicWorld creates a collaborator whose static colliders are walls.
func NewKinematicWorld(walls []Polygon) *KinematicWorld {
	return &KinematicWorld{walls: ObstacleSet(walls)}
}

// AddCircle registers a circular body and returns its collider id.
func (k *KinematicWorld) AddCircle(pos Vec2, radius float64) ColliderID {
	k.bodies = append(k.bodies, kinBody{pos: pos, radius: radius})
	return ColliderID(len(k.bodies))
}

func (k *KinematicWorld) body(id ColliderID) *kinBody {
	i := int(id) - 1
	if i < 0 || i >= len(k.bodies) {
		return nil
	}
	return &k.bodies[i]
}

// Position implements PositionSource.
func (k *KinematicWorld) Position(id ColliderID) (Vec2, bool) {
	b := k.body(id)
	if b == nil {
		return Vec2{}, false
	}
	return b.pos, true
}

// SetPosition teleports a body.
func (k *KinematicWorld) SetPosition(id ColliderID, p Vec2) {
	if b := k.body(id); b != nil {
		b.pos = p
	}
}

// SetVelocity implements VelocitySink.
func (k *KinematicWorld) SetVelocity(id ColliderID, v Vec2) {
	if b := k.body(id); b != nil {
		b.vel = v
	}
}

// Step integrates every body. A move that would end inside a wall is
// dropped for that axis, which is enough to keep agents out of geometry.
func (k *KinematicWorld) Step(dt float64) {
	for i := range k.bodies {
		b := &k.bodies[i]
		next := Vec2{b.pos.X + b.vel.X*dt, b.pos.Y}
		if k.insideWall(next, b.radius) {
			next.X = b.pos.X
		}
		next.Y += b.vel.Y * dt
		if k.insideWall(next, b.radius) {
			next.Y = b.pos.Y
		}
		b.pos = next
	}
}

func (k *KinematicWorld) insideWall(p Vec2, r float64) bool {
	for _, w := range k.walls {
		lo, hi := w.Bounds()
		cx := clamp(p.X, lo.X, hi.X)
		cy := clamp(p.Y, lo.Y, hi.Y)
		if p.Dist2(Vec2{cx, cy}) < r*r {
			return true
		}
	}
	return false
}

// CastRay implements Raycaster.
func (k *KinematicWorld) CastRay(origin, dir Vec2, maxDist float64, filter func(ColliderID) bool) (RayHit, bool) {
	dir = dir.Normalize(Vec2{1, 0})
	end := origin.Add(dir.Scale(maxDist))

	best := math.Inf(1)
	hit := RayHit{Collider: NoCollider}
	if filter == nil || filter(WallCollider) {
		for _, w := range k.walls {
			lo, hi := w.Bounds()
			if t, ok := rayAABBHitT(origin.X, origin.Y, end.X, end.Y, lo.X, lo.Y, hi.X, hi.Y); ok && t < best {
				best = t
				hit.Collider = WallCollider
			}
		}
	}
	for i := range k.bodies {
		id := ColliderID(i + 1)
		if filter != nil && !filter(id) {
			continue
		}
		b := &k.bodies[i]
		if t, ok := segmentCircleHitT(origin, end, b.pos, b.radius); ok && t < best {
			best = t
			hit.Collider = id
		}
	}
	if hit.Collider == NoCollider {
		return RayHit{}, false
	}
	hit.Distance = best * maxDist
	hit.Point = origin.Add(dir.Scale(hit.Distance))
	return hit, true
}
