package game

import (
	"fmt"
	"math/rand"
)

// TestSim is a headless simulation harness for tests and the headless
// report. It pairs a World with the pure-Go KinematicWorld collaborator and
// supports deterministic seeding and structured logging.
type TestSim struct {
	World  *World
	Phys   *KinematicWorld
	Grid   *GridMap
	SimLog *SimLog
	DT     float64

	levelText string
	tileSize  float64
	tuning    Tuning
	workers   int
	rng       *rand.Rand
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // level, seed, tuning, workers, applied first
	simOptEntity                      // enemies, target, blockers, applied after the world exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// defaultArena is an open 16x12 room with a wall ring and one pillar.
const defaultArena = `arena
################
#              #
#              #
#              #
#      ##      #
#      ##      #
#              #
#              #
#              #
#              #
#              #
################
`

// WithLevel sets the level text (first line is the next-level label).
func WithLevel(text string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.levelText = text
	}}
}

// WithTileSize sets the tile edge length in pixels.
func WithTileSize(size float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tileSize = size
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithWorkers caps the number of goroutines used by the parallel phases.
func WithWorkers(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.workers = n
	}}
}

// WithTuning edits the tuning before the world is built.
func WithTuning(edit func(*Tuning)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		edit(&ts.tuning)
	}}
}

// WithLevelSpawns places an enemy on every 'E' tile and the target on the
// first 'P' tile of the level.
func WithLevelSpawns() SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.SpawnFromGrid(ts.Phys, ts.rng)
	}}
}

// WithEnemy adds an enemy on cell (gx,gy) facing heading radians.
func WithEnemy(gx, gy int, heading float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.addEnemy(GridPos{gx, gy}, heading)
	}}
}

// WithTarget places the target on cell (gx,gy).
func WithTarget(gx, gy int) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.setTarget(GridPos{gx, gy})
	}}
}

// WithBlocker drops a dynamic blocker on cell (gx,gy) that lasts ttl seconds
// (ttl <= 0 lasts forever).
func WithBlocker(gx, gy int, ttl float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.AddBlocker(ts.Grid.GridToWorld(GridPos{gx, gy}), ttl)
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (level, seed, tuning, workers)
//  2. Build grid, physics and world
//  3. Entities (enemies, target, blockers)
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		DT:        1.0 / 60.0,
		SimLog:    NewSimLog(false),
		levelText: defaultArena,
		tileSize:  32,
		tuning:    DefaultTuning(),
		rng:       rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	if err := ValidateLevel(ts.levelText); err != nil {
		return nil, fmt.Errorf("testsim: %w", err)
	}
	ts.Grid = ParseGrid(ts.levelText, ts.tileSize)

	reg := NewObstacleRegistry(ts.Grid)
	ts.Phys = NewKinematicWorld(reg.Static())
	w, err := NewWorld(ts.Grid, ts.Phys, ts.tuning)
	if err != nil {
		return nil, fmt.Errorf("testsim: %w", err)
	}
	w.Log = ts.SimLog
	if ts.workers > 0 {
		w.Workers = ts.workers
	}
	ts.World = w

	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	return ts, nil
}

func (ts *TestSim) addEnemy(p GridPos, heading float64) {
	ts.World.SpawnEnemy(ts.Phys, ts.Grid.GridToWorld(p), heading, ts.rng.Int63())
}

func (ts *TestSim) setTarget(p GridPos) {
	pos := ts.Grid.GridToWorld(p)
	if ts.World.Target != nil {
		ts.MoveTarget(pos)
		return
	}
	ts.World.SpawnTarget(ts.Phys, pos)
}

// MoveTarget teleports the target to a world position.
func (ts *TestSim) MoveTarget(pos Vec2) {
	if ts.World.Target == nil {
		return
	}
	ts.Phys.SetPosition(ts.World.Target.Collider, pos)
	ts.World.Target.Pos = pos
}

// RemoveTarget takes the target out of the world.
func (ts *TestSim) RemoveTarget() {
	ts.World.Target = nil
}

// Enemy returns the enemy with arena index i.
func (ts *TestSim) Enemy(i int) *Enemy {
	return &ts.World.Enemies[i]
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) error {
	for i := 0; i < n; i++ {
		if err := ts.step(); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) (int, error) {
	for i := 0; i < maxTicks; i++ {
		if err := ts.step(); err != nil {
			return -1, err
		}
		if predicate(ts) {
			return ts.World.Tick, nil
		}
	}
	return -1, nil
}

func (ts *TestSim) step() error {
	if err := ts.World.Step(ts.DT); err != nil {
		return err
	}
	ts.Phys.Step(ts.DT)
	if ts.SimLog.Verbose() {
		for i := range ts.World.Enemies {
			e := &ts.World.Enemies[i]
			ts.SimLog.AddVerbose(ts.World.Tick, e.Label(), "move", "position",
				fmt.Sprintf("(%.1f,%.1f)", e.Pos.X, e.Pos.Y), e.Velocity.Len())
		}
	}
	return nil
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.World.Tick
}

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick    int
	Enemies []EnemySnapshot
}

// EnemySnapshot is a lightweight copy of an enemy's state at a tick.
type EnemySnapshot struct {
	Index    int
	Label    string
	Pos      Vec2
	Facing   float64
	Mode     BehaviorMode
	Visible  bool
	LastSeen Vec2
	Goal     Vec2
}

// Snapshot returns the current state of all enemies.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: ts.World.Tick}
	for i := range ts.World.Enemies {
		e := &ts.World.Enemies[i]
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			Index:    e.Index,
			Label:    e.Label(),
			Pos:      e.Pos,
			Facing:   e.Facing.Angle,
			Mode:     e.Mode(),
			Visible:  e.Perception.Visible,
			LastSeen: e.Perception.LastSeenPos,
			Goal:     e.Path.Target,
		})
	}
	return snap
}
