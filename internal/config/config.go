// Package config provides YAML-based configuration loading and difficulty
// presets for snowrun.
package config

// Config contains all tunables for a run.
type Config struct {
	Physics     Physics     `yaml:"physics"`
	Rider       Rider       `yaml:"rider"`
	Input       Input       `yaml:"input"`
	PowerUps    PowerUps    `yaml:"powerups"`
	Terrain     Terrain     `yaml:"terrain"`
	Scoring     Scoring     `yaml:"scoring"`
	Run         Run         `yaml:"run"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
}

// Physics defines world integration parameters.
type Physics struct {
	Gravity      float64 `yaml:"gravity"`        // Vertical acceleration (negative = down)
	FixedStep    float64 `yaml:"fixed_step"`     // Physics step in seconds
	MaxSnapDepth float64 `yaml:"max_snap_depth"` // Deeper penetrations are not pushed back out
}

// Rider defines the locomotion engine parameters.
type Rider struct {
	Mass               float64      `yaml:"mass"`
	SpawnX             float64      `yaml:"spawn_x"`
	SpawnY             float64      `yaml:"spawn_y"`
	MoveForce          float64      `yaml:"move_force"`
	MaxSpeed           float64      `yaml:"max_speed"`
	BrakeForce         float64      `yaml:"brake_force"`
	BrakeDeadzone      float64      `yaml:"brake_deadzone"`
	JumpForce          float64      `yaml:"jump_force"`
	JumpForwardImpulse float64      `yaml:"jump_forward_impulse"`
	SlowdownMultiplier float64      `yaml:"slowdown_multiplier"`
	Damping            float64      `yaml:"damping"`           // Fraction of horizontal speed kept per second without input
	MinForwardSpeed    float64      `yaml:"min_forward_speed"` // Below this, MinForwardForce is reapplied
	MinForwardForce    float64      `yaml:"min_forward_force"`
	ConstantForce      float64      `yaml:"constant_force"` // Applied every step, grounded or not
	FallMultiplier     float64      `yaml:"fall_multiplier"`
	RotationSpeed      float64      `yaml:"rotation_speed"` // Degrees per second while airborne
	HeadHeight         float64      `yaml:"head_height"`
	CorrectLift        float64      `yaml:"correct_lift"`
	UnstickLift        float64      `yaml:"unstick_lift"`
	GroundProbe        *GroundProbe `yaml:"ground_probe"` // nil disables ground detection
	GroundLayers       []string     `yaml:"ground_layers"`
}

// GroundProbe is the anchor used for grounded detection, relative to the rider.
type GroundProbe struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Radius  float64 `yaml:"radius"`
}

// Input defines the input source and gesture thresholds.
type Input struct {
	Source             string  `yaml:"source"`               // "keyboard" or "touch"
	DoubleTapThreshold float64 `yaml:"double_tap_threshold"` // Seconds between taps for a jump
	SwipeThreshold     float64 `yaml:"swipe_threshold"`      // Downward drag distance (screen units) for slow-down
}

// PowerUps defines pickup effects.
type PowerUps struct {
	BoostMultiplier float64 `yaml:"boost_multiplier"`
	BoostDuration   float64 `yaml:"boost_duration"`
	ShieldDuration  float64 `yaml:"shield_duration"`
	PickupRadius    float64 `yaml:"pickup_radius"`
}

// Terrain defines chunk streaming and the template palette.
type Terrain struct {
	ChunksAhead        int             `yaml:"chunks_ahead"`
	LookAheadDistance  float64         `yaml:"look_ahead_distance"`
	TimeTrialMaxChunks int             `yaml:"time_trial_max_chunks"`
	ModeCheckDelay     float64         `yaml:"mode_check_delay"`
	MissingEndLength   float64         `yaml:"missing_end_length"`
	Templates          []ChunkTemplate `yaml:"templates"`
}

// ChunkTemplate is one terrain segment shape in local coordinates.
type ChunkTemplate struct {
	ID      string            `yaml:"id"`
	Start   *Point            `yaml:"start"`
	End     *Point            `yaml:"end"`
	Surface []Point           `yaml:"surface"`
	Pickups []PickupPlacement `yaml:"pickups"`
}

// Point is a 2D position in world units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PickupPlacement places a pickup inside a chunk template.
type PickupPlacement struct {
	Kind string  `yaml:"kind"` // "extra_life", "shield" or "speed_boost"
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Scoring defines distance and trick scoring.
type Scoring struct {
	DistanceRate float64 `yaml:"distance_rate"`
	TrickBonus   int     `yaml:"trick_bonus"`
	TrickDegrees float64 `yaml:"trick_degrees"`
}

// Run defines run-level timing.
type Run struct {
	TimeLimit   float64 `yaml:"time_limit"` // Time trial length in seconds
	CrashDelay  float64 `yaml:"crash_delay"`
	FinishDelay float64 `yaml:"finish_delay"`
	KillDepth   float64 `yaml:"kill_depth"` // Distance below the lowest surface that counts as a fall
}

// Leaderboard defines the local leaderboard policy.
type Leaderboard struct {
	Capacity    int      `yaml:"capacity"`
	FillerMin   int      `yaml:"filler_min"` // inclusive
	FillerMax   int      `yaml:"filler_max"` // exclusive
	FillerNames []string `yaml:"filler_names"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a CLI string to a preset. Unknown values return "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal (and the empty preset) leave the config untouched.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Run.TimeLimit *= 1.2
		cfg.Rider.MaxSpeed *= 0.85
		cfg.PowerUps.ShieldDuration *= 1.5
	case DifficultyHard:
		cfg.Run.TimeLimit *= 0.8
		cfg.Rider.MaxSpeed *= 1.25
		cfg.Rider.ConstantForce *= 1.4
		cfg.PowerUps.ShieldDuration *= 0.6
	}
}
