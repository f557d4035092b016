// Package physics adapts a Chipmunk space to the game's raycast and velocity
// collaborator interfaces.
package physics

import (
	"math"
	"sync"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Shadow-Sense/internal/game"
	"github.com/Garsondee/Shadow-Sense/internal/logger"
)

// Space owns the Chipmunk space: one static box per merged wall rectangle
// and one fixed-rotation circle body per agent.
type Space struct {
	mu     sync.Mutex // cp queries bump internal lock counters
	space  *cp.Space
	bodies map[game.ColliderID]*agent
	nextID game.ColliderID
	log    *logrus.Entry
}

// NewSpace creates a gravity-free space with static boxes for walls.
func NewSpace(walls []game.Polygon) *Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	s := &Space{
		space:  space,
		bodies: make(map[game.ColliderID]*agent),
		nextID: game.WallCollider + 1,
		log:    logger.Component("physics"),
	}
	for _, w := range walls {
		lo, hi := w.Bounds()
		bb := cp.BB{L: lo.X, B: lo.Y, R: hi.X, T: hi.Y}
		shape := cp.NewBox2(space.StaticBody, bb, 0)
		shape.SetFriction(0)
		shape.UserData = game.WallCollider
		space.AddShape(shape)
	}
	s.log.WithField("walls", len(walls)).Debug("static shapes built")
	return s
}

// agent is a dynamic body driven by a commanded velocity. cp integrates
// positions before it solves contacts, so the command is applied from the
// body's velocity func; the contact solver then strips the part that would
// push into a wall before the next position update.
type agent struct {
	body *cp.Body
	want cp.Vector
}

func (a *agent) updateVelocity(body *cp.Body, _ cp.Vector, _, _ float64) {
	body.SetVelocityVector(a.want)
}

// AddCircle adds a dynamic circular body and returns its collider id.
func (s *Space) AddCircle(pos game.Vec2, radius float64) game.ColliderID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(vec(pos))
	a := &agent{body: body}
	body.SetVelocityUpdateFunc(a.updateVelocity)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.UserData = id
	s.space.AddBody(body)
	s.space.AddShape(shape)
	s.bodies[id] = a
	return id
}

// Position implements game.PositionSource.
func (s *Space) Position(id game.ColliderID) (game.Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.bodies[id]
	if !ok {
		return game.Vec2{}, false
	}
	return fromVec(a.body.Position()), true
}

// SetPosition teleports a body and clears its velocity.
func (s *Space) SetPosition(id game.ColliderID, p game.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.bodies[id]; ok {
		a.want = cp.Vector{}
		a.body.SetPosition(vec(p))
		a.body.SetVelocityVector(cp.Vector{})
	}
}

// SetVelocity implements game.VelocitySink. The command takes effect from
// the next Step and moves the body from the one after.
func (s *Space) SetVelocity(id game.ColliderID, v game.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.bodies[id]; ok {
		a.want = vec(v)
	}
}

// Step integrates the space.
func (s *Space) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.space.Step(dt)
}

// CastRay implements game.Raycaster. Shapes whose collider id the filter
// rejects are passed through.
func (s *Space) CastRay(origin, dir game.Vec2, maxDist float64, filter func(game.ColliderID) bool) (game.RayHit, bool) {
	dir = dir.Normalize(game.Vec2{X: 1})
	start := vec(origin)
	end := vec(origin.Add(dir.Scale(maxDist)))

	best := math.Inf(1)
	var hit game.RayHit

	s.mu.Lock()
	s.space.SegmentQuery(start, end, 0, cp.SHAPE_FILTER_ALL,
		func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
			id, ok := shape.UserData.(game.ColliderID)
			if !ok {
				return
			}
			if filter != nil && !filter(id) {
				return
			}
			if alpha < best {
				best = alpha
				hit = game.RayHit{Collider: id, Point: fromVec(point), Distance: alpha * maxDist}
			}
		}, nil)
	s.mu.Unlock()

	if math.IsInf(best, 1) {
		return game.RayHit{}, false
	}
	return hit, true
}

func vec(v game.Vec2) cp.Vector     { return cp.Vector{X: v.X, Y: v.Y} }
func fromVec(v cp.Vector) game.Vec2 { return game.Vec2{X: v.X, Y: v.Y} }
