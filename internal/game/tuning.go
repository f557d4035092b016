package game

// Tuning holds every gameplay constant the simulation reads. config.Config
// builds one from YAML; tests use DefaultTuning.
type Tuning struct {
	Perception PerceptionTuning
	Movement   MovementTuning
	Behavior   BehaviorTuning
	Lights     LightTuning
}

// PerceptionTuning sets the vision cone.
type PerceptionTuning struct {
	VisualRange  float64 // pixels
	HalfAngleDeg float64
}

// MovementTuning sets path following.
type MovementTuning struct {
	StaleDistance  float64 // replan when the path end drifts this far from the target
	WaypointRadius float64
	ArrivalRadius  float64
	AlignPower     float64 // exponent on the facing/heading alignment factor
}

// BehaviorTuning sets chase and search.
type BehaviorTuning struct {
	SearchRadiusMin float64
	SearchRadiusMax float64
	SearchRamp      float64 // seconds from min to max
	SearchDwell     float64 // idle scan seconds between search points

	AlertSpeedMin, AlertSpeedMax float64 // pixels per second
	AlertTurnMin, AlertTurnMax   float64 // radians per second
	PatrolSpeed                  float64
	PatrolTurn                   float64
}

// LightTuning sets the vision-cone lights.
type LightTuning struct {
	EyeOffset float64 // spotlight distance ahead of the enemy centre
	Bound     float64 // half-size of the visibility cap square
	Blocker   float64 // half-size of a dynamic blocker square
}

// DefaultTuning returns the stock values.
func DefaultTuning() Tuning {
	return Tuning{
		Perception: PerceptionTuning{
			VisualRange:  defaultVisualRange,
			HalfAngleDeg: defaultHalfAngleDeg,
		},
		Movement: MovementTuning{
			StaleDistance:  40,
			WaypointRadius: 8,
			ArrivalRadius:  16,
			AlignPower:     3,
		},
		Behavior: BehaviorTuning{
			SearchRadiusMin: 50,
			SearchRadiusMax: 1050,
			SearchRamp:      90,
			AlertSpeedMin:   140,
			AlertSpeedMax:   180,
			AlertTurnMin:    3.5,
			AlertTurnMax:    4.5,
			PatrolSpeed:     80,
			PatrolTurn:      2.0,
		},
		Lights: LightTuning{
			EyeOffset: 20,
			Bound:     2048,
			Blocker:   24,
		},
	}
}
