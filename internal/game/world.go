package game

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Shadow-Sense/internal/logger"
)

// ErrNoPhysics is returned by NewWorld when no physics collaborator is given.
var ErrNoPhysics = errors.New("world: physics collaborator required")

// World is the simulation context for one level. Shared state (grid,
// obstacles, pathfinder) is written only by the single-threaded phases of
// Step; workers read it and write only their own Enemies slot.
type World struct {
	Grid      *GridMap
	Obstacles *ObstacleRegistry
	Paths     *Pathfinder
	Physics   Physics

	Enemies  []Enemy
	Target   *Target
	Blockers []Blocker
	Lights   []Light

	Tuning  Tuning
	Workers int
	// ViewMin/ViewMax bound the viewport used to cull lights. Both zero means
	// the whole level.
	ViewMin, ViewMax Vec2

	Log  *SimLog
	Time float64
	Tick int

	snapshot ObstacleSet
	views    []LightView
	log      *logrus.Entry
}

// NewWorld builds a world over grid using phys for raycasts and velocities.
func NewWorld(grid *GridMap, phys Physics, tun Tuning) (*World, error) {
	if phys == nil {
		return nil, ErrNoPhysics
	}
	w := &World{
		Grid:      grid,
		Obstacles: NewObstacleRegistry(grid),
		Paths:     NewPathfinder(grid),
		Physics:   phys,
		Tuning:    tun,
		Workers:   runtime.GOMAXPROCS(0),
		Log:       NewSimLog(false),
		log:       logger.Component("world"),
	}
	w.snapshot = w.Obstacles.Current()
	w.log.WithFields(logrus.Fields{
		"width":  grid.Width,
		"height": grid.Height,
		"rects":  w.Obstacles.StaticCount(),
		"walls":  grid.WallCount(),
	}).Debug("world built")
	return w, nil
}

// AddEnemy appends an enemy with collider id at pos and gives it a spotlight.
// It returns the enemy's arena index.
func (w *World) AddEnemy(collider ColliderID, pos Vec2, heading float64, seed int64) int {
	i := len(w.Enemies)
	w.Enemies = append(w.Enemies, NewEnemy(i, collider, pos, heading, w.Tuning, seed))
	w.Lights = append(w.Lights, EnemySpotlight(i, w.Enemies[i].Perception))
	return i
}

// BodyAdder creates circular physics bodies for spawned agents.
type BodyAdder interface {
	AddCircle(pos Vec2, radius float64) ColliderID
}

// SpawnEnemy creates a body for a new enemy at pos and adds it.
func (w *World) SpawnEnemy(bodies BodyAdder, pos Vec2, heading float64, seed int64) int {
	return w.AddEnemy(bodies.AddCircle(pos, enemyRadius), pos, heading, seed)
}

// SpawnTarget creates the target body at pos, replacing any previous target.
func (w *World) SpawnTarget(bodies BodyAdder, pos Vec2) {
	w.Target = &Target{Collider: bodies.AddCircle(pos, targetRadius), Pos: pos}
}

// SpawnFromGrid places an enemy on every enemy spawn tile and the target on
// the first player spawn tile. Enemy seeds are drawn from rng in spawn order.
func (w *World) SpawnFromGrid(bodies BodyAdder, rng *rand.Rand) {
	for _, p := range w.Grid.SpawnPoints(TileEnemySpawn) {
		w.SpawnEnemy(bodies, w.Grid.GridToWorld(p), 0, rng.Int63())
	}
	if ps := w.Grid.SpawnPoints(TilePlayerSpawn); len(ps) > 0 {
		w.SpawnTarget(bodies, w.Grid.GridToWorld(ps[0]))
	}
	w.log.WithFields(logrus.Fields{
		"enemies": len(w.Enemies),
		"target":  w.Target != nil,
	}).Info("level populated")
}

// Snapshot returns the obstacle set every query of the current tick sees.
func (w *World) Snapshot() ObstacleSet { return w.snapshot }

// Step advances the simulation by dt seconds.
//
//  1. sync transforms, rebuild dynamic obstacles, snapshot (single thread)
//  2. perception -> behaviour -> movement per enemy (parallel)
//  3. flush events, push velocities (single thread)
//  4. light polygons (parallel)
func (w *World) Step(dt float64) error {
	w.Time += dt
	w.Tick++

	w.syncBodies()
	w.rebuildObstacles(dt)

	err := w.forEach(len(w.Enemies), func(i int) {
		w.updateEnemy(&w.Enemies[i], dt)
	})

	w.flush()
	if err != nil {
		return fmt.Errorf("world: tick %d: %w", w.Tick, err)
	}

	for i := range w.Lights {
		if w.Lights[i].Owner < 0 && w.Lights[i].Spin != 0 {
			w.Lights[i].Facing = normalizeAngle(w.Lights[i].Facing + w.Lights[i].Spin*dt)
		}
	}
	if len(w.views) != len(w.Lights) {
		w.views = make([]LightView, len(w.Lights))
	}
	if err := w.forEach(len(w.Lights), func(i int) {
		w.views[i] = w.lightView(w.Lights[i])
	}); err != nil {
		return fmt.Errorf("world: tick %d lights: %w", w.Tick, err)
	}
	return nil
}

// forEach runs fn for 0..n-1 on at most Workers goroutines. A panic in fn is
// returned as an error instead of tearing down the process.
func (w *World) forEach(n int, fn func(i int)) error {
	var g errgroup.Group
	workers := w.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("worker %d: %v", i, r)
				}
			}()
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

func (w *World) syncBodies() {
	for i := range w.Enemies {
		e := &w.Enemies[i]
		if p, ok := w.Physics.Position(e.Collider); ok {
			e.Pos = p
		}
	}
	if w.Target != nil {
		if p, ok := w.Physics.Position(w.Target.Collider); ok {
			w.Target.Pos = p
		}
	}
}

func (w *World) rebuildObstacles(dt float64) {
	w.Obstacles.ResetDynamic()
	kept := w.Blockers[:0]
	for _, b := range w.Blockers {
		if b.TTL > 0 {
			b.TTL -= dt
			if b.TTL <= 0 {
				w.Log.Add(w.Tick, "--", "blocker", "expired", fmt.Sprintf("(%.0f,%.0f)", b.Pos.X, b.Pos.Y), 0)
				continue
			}
		}
		w.Obstacles.AddBlocker(b.Pos, b.HalfSize)
		kept = append(kept, b)
	}
	w.Blockers = kept
	w.snapshot = w.Obstacles.Current()
}

// AddBlocker drops a dynamic occluder into the world. ttl <= 0 never expires.
func (w *World) AddBlocker(pos Vec2, ttl float64) {
	w.Blockers = append(w.Blockers, Blocker{Pos: pos, HalfSize: w.Tuning.Lights.Blocker, TTL: ttl})
	w.Log.Add(w.Tick, "--", "blocker", "added", fmt.Sprintf("(%.0f,%.0f) ttl=%.1f", pos.X, pos.Y, ttl), ttl)
}

func (w *World) updateEnemy(e *Enemy, dt float64) {
	was := e.Perception.Visible
	Perceive(e, w.Target, w.Physics, w.Time)
	if p := e.Perception; p.Visible != was {
		key := "lost"
		if p.Visible {
			key = "spotted"
		}
		e.note(w.Tick, "perception", key, fmt.Sprintf("(%.0f,%.0f)", p.LastSeenPos.X, p.LastSeenPos.Y), p.LastSeenTime)
	}

	Behavior{Tuning: w.Tuning.Behavior}.Update(e, w.Time, dt, w.Tick)

	res := Mover{Tuning: w.Tuning.Movement}.Update(e, w.Paths, dt)
	switch {
	case res.Unreachable:
		e.note(w.Tick, "move", "unreachable", fmt.Sprintf("(%.0f,%.0f)", e.Path.Target.X, e.Path.Target.Y), 0)
	case res.Arrived:
		e.note(w.Tick, "move", "arrived", fmt.Sprintf("(%.0f,%.0f)", e.Pos.X, e.Pos.Y), 0)
	case res.Replanned && w.Log.Verbose():
		e.note(w.Tick, "move", "replan", fmt.Sprintf("%d waypoints", len(e.Path.Path)), float64(len(e.Path.Path)))
	}
}

// flush moves buffered events into the sim log in enemy order and hands the
// velocities to the physics collaborator.
func (w *World) flush() {
	for i := range w.Enemies {
		e := &w.Enemies[i]
		for _, ev := range e.pending {
			w.Log.push(ev)
			switch {
			case ev.Category == "perception":
				w.log.WithFields(logrus.Fields{
					"enemy": ev.Agent,
					"tick":  ev.Tick,
					"at":    ev.Value,
				}).Debug("target " + ev.Key)
			case ev.Key == "unreachable":
				w.log.WithFields(logrus.Fields{
					"enemy": ev.Agent,
					"goal":  ev.Value,
				}).Warn("no path to goal")
			}
		}
		e.pending = e.pending[:0]
		w.Physics.SetVelocity(e.Collider, e.Velocity)
	}
}

func (w *World) viewport() (Vec2, Vec2) {
	if w.ViewMin == (Vec2{}) && w.ViewMax == (Vec2{}) {
		return w.Grid.WorldBounds()
	}
	return w.ViewMin, w.ViewMax
}

func (w *World) lightView(l Light) LightView {
	v := w.resolveLight(l)
	lo, hi := w.viewport()
	if !CircleIntersectsRect(v.Reach, v.Center, lo, hi) {
		return v
	}
	v.InView = true
	v.Polygon = VisibilityPolygon(v.Center, w.snapshot, w.Tuning.Lights.Bound)
	return v
}

// Frame returns a snapshot for the render collaborator. Light polygons are
// those computed by the most recent Step.
func (w *World) Frame() RenderFrame {
	f := RenderFrame{
		Tick:   w.Tick,
		Time:   w.Time,
		Static: w.Obstacles.Static(),
		Lights: append([]LightView(nil), w.views...),
	}
	for _, b := range w.Blockers {
		h := Vec2{b.HalfSize, b.HalfSize}
		f.Blockers = append(f.Blockers, RectPolygon(b.Pos.Sub(h), b.Pos.Add(h)))
	}
	if w.Target != nil {
		t := *w.Target
		f.Target = &t
	}
	f.Enemies = make([]EnemyView, len(w.Enemies))
	for i := range w.Enemies {
		e := &w.Enemies[i]
		f.Enemies[i] = EnemyView{
			Index:    e.Index,
			Pos:      e.Pos,
			Facing:   e.Facing.Angle,
			Mode:     e.Mode(),
			Visible:  e.Perception.Visible,
			LastSeen: e.Perception.LastSeenPos,
			Path:     append([]Vec2(nil), e.Path.Path...),
			Goal:     e.Path.Target,
			Moving:   e.Path.Moving,
		}
	}
	return f
}
