// Package config loads simulation tuning from YAML with .env and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Shadow-Sense/internal/game"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvConfig   = "SHADOW_CONFIG"
	EnvLevel    = "SHADOW_LEVEL"
	EnvLogLevel = "SHADOW_LOG_LEVEL"
	EnvWorkers  = "SHADOW_WORKERS"
)

// Config is the on-disk tuning file.
type Config struct {
	Grid       GridSpec       `yaml:"grid"`
	Perception PerceptionSpec `yaml:"perception"`
	Movement   MovementSpec   `yaml:"movement"`
	Behavior   BehaviorSpec   `yaml:"behavior"`
	Lights     LightSpec      `yaml:"lights"`
	Sim        SimSpec        `yaml:"sim"`
	Log        LogSpec        `yaml:"log"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

type GridSpec struct {
	TileSize float64 `yaml:"tile_size"`
	Level    string  `yaml:"level"` // file path, or the name of an embedded level
}

type PerceptionSpec struct {
	VisualRange  float64 `yaml:"visual_range"`
	HalfAngleDeg float64 `yaml:"half_angle_deg"`
}

type MovementSpec struct {
	StaleDistance  float64 `yaml:"stale_distance"`
	WaypointRadius float64 `yaml:"waypoint_radius"`
	ArrivalRadius  float64 `yaml:"arrival_radius"`
	AlignPower     float64 `yaml:"align_power"`
}

type BehaviorSpec struct {
	SearchRadiusMin float64    `yaml:"search_radius_min"`
	SearchRadiusMax float64    `yaml:"search_radius_max"`
	SearchRamp      float64    `yaml:"search_ramp"`
	SearchDwell     float64    `yaml:"search_dwell"`
	AlertSpeed      [2]float64 `yaml:"alert_speed"`
	AlertTurn       [2]float64 `yaml:"alert_turn"`
	PatrolSpeed     float64    `yaml:"patrol_speed"`
	PatrolTurn      float64    `yaml:"patrol_turn"`
}

type LightSpec struct {
	EyeOffset float64 `yaml:"eye_offset"`
	Bound     float64 `yaml:"bound"`
	Blocker   float64 `yaml:"blocker"`
}

type SimSpec struct {
	TickRate float64 `yaml:"tick_rate"` // ticks per second
	Workers  int     `yaml:"workers"`   // 0 means GOMAXPROCS
	Seed     int64   `yaml:"seed"`
	Verbose  bool    `yaml:"verbose"`
}

type LogSpec struct {
	Level string `yaml:"level"`
}

// Default mirrors game.DefaultTuning.
func Default() Config {
	t := game.DefaultTuning()
	return Config{
		Grid: GridSpec{TileSize: 32, Level: "level1"},
		Perception: PerceptionSpec{
			VisualRange:  t.Perception.VisualRange,
			HalfAngleDeg: t.Perception.HalfAngleDeg,
		},
		Movement: MovementSpec{
			StaleDistance:  t.Movement.StaleDistance,
			WaypointRadius: t.Movement.WaypointRadius,
			ArrivalRadius:  t.Movement.ArrivalRadius,
			AlignPower:     t.Movement.AlignPower,
		},
		Behavior: BehaviorSpec{
			SearchRadiusMin: t.Behavior.SearchRadiusMin,
			SearchRadiusMax: t.Behavior.SearchRadiusMax,
			SearchRamp:      t.Behavior.SearchRamp,
			SearchDwell:     t.Behavior.SearchDwell,
			AlertSpeed:      [2]float64{t.Behavior.AlertSpeedMin, t.Behavior.AlertSpeedMax},
			AlertTurn:       [2]float64{t.Behavior.AlertTurnMin, t.Behavior.AlertTurnMax},
			PatrolSpeed:     t.Behavior.PatrolSpeed,
			PatrolTurn:      t.Behavior.PatrolTurn,
		},
		Lights: LightSpec{
			EyeOffset: t.Lights.EyeOffset,
			Bound:     t.Lights.Bound,
			Blocker:   t.Lights.Blocker,
		},
		Sim: SimSpec{TickRate: 60, Seed: 1},
		Log: LogSpec{Level: "info"},
	}
}

// Load overlays the YAML file at path onto Default. Keys missing from the
// file keep their default values. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv reads an optional .env file, then loads the config named by
// SHADOW_CONFIG (falling back to path) and applies the remaining overrides.
func LoadEnv(path string, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Default(), fmt.Errorf("config: dotenv: %w", err)
	}
	if p := os.Getenv(EnvConfig); p != "" {
		path = p
	}
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides the level, log level and worker count from getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLevel); v != "" {
		c.Grid.Level = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvWorkers, v, err)
		}
		c.Sim.Workers = n
	}
	return nil
}

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Grid.TileSize <= 0:
		return fmt.Errorf("grid.tile_size must be positive, got %v", c.Grid.TileSize)
	case c.Perception.VisualRange <= 0:
		return fmt.Errorf("perception.visual_range must be positive, got %v", c.Perception.VisualRange)
	case c.Perception.HalfAngleDeg <= 0 || c.Perception.HalfAngleDeg > 180:
		return fmt.Errorf("perception.half_angle_deg must be in (0, 180], got %v", c.Perception.HalfAngleDeg)
	case c.Movement.ArrivalRadius < 0 || c.Movement.WaypointRadius < 0 || c.Movement.StaleDistance < 0:
		return errors.New("movement radii must not be negative")
	case c.Behavior.SearchRadiusMin < 0 || c.Behavior.SearchRadiusMax < c.Behavior.SearchRadiusMin:
		return fmt.Errorf("behavior search radius range [%v, %v] is invalid",
			c.Behavior.SearchRadiusMin, c.Behavior.SearchRadiusMax)
	case c.Behavior.AlertSpeed[0] > c.Behavior.AlertSpeed[1]:
		return fmt.Errorf("behavior.alert_speed %v is not ascending", c.Behavior.AlertSpeed)
	case c.Behavior.AlertTurn[0] > c.Behavior.AlertTurn[1]:
		return fmt.Errorf("behavior.alert_turn %v is not ascending", c.Behavior.AlertTurn)
	case c.Lights.Bound <= 0:
		return fmt.Errorf("lights.bound must be positive, got %v", c.Lights.Bound)
	case c.Sim.TickRate <= 0:
		return fmt.Errorf("sim.tick_rate must be positive, got %v", c.Sim.TickRate)
	case c.Sim.Workers < 0:
		return fmt.Errorf("sim.workers must not be negative, got %d", c.Sim.Workers)
	}
	return nil
}

// Tuning converts the file layout to the simulation's tuning.
func (c Config) Tuning() game.Tuning {
	return game.Tuning{
		Perception: game.PerceptionTuning{
			VisualRange:  c.Perception.VisualRange,
			HalfAngleDeg: c.Perception.HalfAngleDeg,
		},
		Movement: game.MovementTuning{
			StaleDistance:  c.Movement.StaleDistance,
			WaypointRadius: c.Movement.WaypointRadius,
			ArrivalRadius:  c.Movement.ArrivalRadius,
			AlignPower:     c.Movement.AlignPower,
		},
		Behavior: game.BehaviorTuning{
			SearchRadiusMin: c.Behavior.SearchRadiusMin,
			SearchRadiusMax: c.Behavior.SearchRadiusMax,
			SearchRamp:      c.Behavior.SearchRamp,
			SearchDwell:     c.Behavior.SearchDwell,
			AlertSpeedMin:   c.Behavior.AlertSpeed[0],
			AlertSpeedMax:   c.Behavior.AlertSpeed[1],
			AlertTurnMin:    c.Behavior.AlertTurn[0],
			AlertTurnMax:    c.Behavior.AlertTurn[1],
			PatrolSpeed:     c.Behavior.PatrolSpeed,
			PatrolTurn:      c.Behavior.PatrolTurn,
		},
		Lights: game.LightTuning{
			EyeOffset: c.Lights.EyeOffset,
			Bound:     c.Lights.Bound,
			Blocker:   c.Lights.Blocker,
		},
	}
}

// TickDT returns the fixed step length in seconds.
func (c Config) TickDT() float64 { return 1 / c.Sim.TickRate }
