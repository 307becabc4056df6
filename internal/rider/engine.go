// Package rider is the locomotion engine: a grounded/airborne state machine
// over a physics body, with braking, jumping, air rotation and the
// shield, speed boost and extra life modifiers.
package rider

import (
	"math"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/physics"
	"github.com/vovakirdan/snowrun/internal/sched"
)

// View is the read-only slice of rider state other components may use.
type View interface {
	Position() core.Vec2
	Rotation() float64
	Grounded() bool
}

// Engine owns the player body and all player state.
type Engine struct {
	cfg     config.Rider
	gravity float64
	snap    float64
	powers  config.PowerUps

	body   *physics.Body
	source Source
	tasks  *sched.Queue
	logger *log.Logger

	mask        physics.Layer
	probeWarned bool

	now             float64
	grounded        bool
	braking         bool
	inputDir        float64
	facing          float64
	slow            bool
	jumpRequested   bool
	controlsEnabled bool
	moveForce       float64
	speed           float64 // along-track speed from the last step

	landings        int
	landingRotation float64

	shield     shieldState
	boost      boostState
	extraLives int
}

type shieldState struct {
	active bool
	until  float64
	gen    int
}

type boostState struct {
	active     bool
	multiplier float64
	until      float64
	baseForce  float64
	gen        int
}

// New creates an engine from the full config. tasks receives power-up
// expiries; logger may be nil.
func New(cfg config.Config, src Source, tasks *sched.Queue, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "rider"})
		logger.Warn("no logger configured, using stderr")
	}
	if tasks == nil {
		tasks = sched.New()
	}
	if src == nil {
		src = NewKeyboardSource()
	}

	mask, unknown := physics.ParseLayers(cfg.Rider.GroundLayers)
	if len(unknown) > 0 {
		logger.Warn("unknown ground layers ignored", "layers", unknown)
	}
	mask, fellBack := physics.MaskOrAllExcept(mask, physics.LayerPlayer)
	if fellBack {
		logger.Warn("no ground layer configured, probing everything except the player")
	}

	// The body starts at the origin so the view is readable before Reset.
	return &Engine{
		body:    physics.NewBody(core.Vec2{}, cfg.Rider.Mass),
		cfg:     cfg.Rider,
		gravity: cfg.Physics.Gravity,
		snap:    cfg.Physics.MaxSnapDepth,
		powers:  cfg.PowerUps,
		source:  src,
		tasks:   tasks,
		logger:  logger,
		mask:    mask,
	}
}

// Reset places a fresh body at spawn and clears all state.
func (e *Engine) Reset(spawn core.Vec2) {
	e.body = physics.NewBody(spawn, e.cfg.Mass)
	e.now = e.tasks.Now()
	e.grounded = false
	e.braking = false
	e.inputDir = 0
	e.facing = 1
	e.slow = false
	e.jumpRequested = false
	e.controlsEnabled = true
	e.moveForce = e.cfg.MoveForce
	e.speed = 0
	e.landings = 0
	e.landingRotation = 0
	e.shield = shieldState{gen: e.shield.gen + 1}
	e.boost = boostState{gen: e.boost.gen + 1}
	e.extraLives = 0
}

// Update runs the variable-rate phase: samples input for the next fixed steps.
func (e *Engine) Update(now float64, in core.InputFrame) {
	e.now = now
	intent := e.source.Sample(now, in, e.grounded)
	if !e.controlsEnabled {
		e.inputDir = 0
		e.slow = false
		return
	}
	e.inputDir = intent.Dir
	e.slow = intent.Slow
	if intent.Jump {
		e.jumpRequested = true
	}
}

// FixedUpdate runs one physics step against the given collision surface.
func (e *Engine) FixedUpdate(dt float64, segs []physics.Segment) {
	e.checkGround(segs)

	if e.controlsEnabled {
		if e.grounded {
			e.applyMovement(dt)
		} else {
			e.applyAirRotation(dt)
		}
		e.applyJump()
		e.applyConstantForces()
	} else {
		e.jumpRequested = false
	}

	e.body.Integrate(dt, core.V(0, e.gravity))

	if c, ok := physics.ResolveGround(e.body, segs, e.mask, e.snap); ok && e.grounded {
		e.alignToSlope(c.SlopeDeg)
	}
}

// checkGround runs the combined overlap and ray probe.
func (e *Engine) checkGround(segs []physics.Segment) {
	probe := e.cfg.GroundProbe
	if probe == nil {
		if !e.probeWarned {
			e.logger.Warn("ground probe not set, keeping last grounded state")
			e.probeWarned = true
		}
		return
	}

	anchor := e.body.Pos.Add(core.V(probe.OffsetX, probe.OffsetY).Rotate(e.body.Rotation))
	hit := physics.OverlapCircle(segs, anchor, probe.Radius, e.mask)
	if !hit {
		_, hit = physics.Raycast(segs, anchor, core.V(0, -1), probe.Radius*1.5, e.mask)
	}

	if hit && !e.grounded {
		e.landings++
		e.landingRotation = e.body.Rotation
		e.logger.Debug("landed", "x", e.body.Pos.X, "rotation", e.body.Rotation)
	}
	e.grounded = hit
}

// alignToSlope turns the body to the slope angle while keeping its winding.
// Bodies landing more than 90 degrees off stay as they are so the head can
// reach the surface.
func (e *Engine) alignToSlope(slope float64) {
	target := nearestWinding(e.body.Rotation, slope)
	if math.Abs(target-e.body.Rotation) >= 90 {
		return
	}
	e.body.MoveRotation(target)
	e.body.AngularVel = 0
}

func (e *Engine) applyMovement(dt float64) {
	right := e.body.Right()
	e.speed = e.body.Vel.Dot(right)
	dir := e.inputDir

	e.braking = dir != 0 && core.Sign(dir) != core.Sign(e.speed) && math.Abs(e.speed) > e.cfg.BrakeDeadzone

	switch {
	case e.braking:
		ratio := core.Clamp01(math.Abs(e.speed) / e.cfg.MaxSpeed)
		e.body.AddForce(right.Scale(-core.Sign(e.speed)*e.cfg.BrakeForce*ratio), physics.ForceContinuous)
	case dir != 0:
		force := e.moveForce
		if e.slow {
			force *= e.cfg.SlowdownMultiplier
		}
		e.body.AddForce(right.Scale(dir*force), physics.ForceContinuous)
		e.facing = core.Sign(dir)
	default:
		// Damping is the fraction of speed kept per second of coasting.
		e.body.Vel.X *= math.Pow(e.cfg.Damping, dt)
		if e.body.Vel.X < e.cfg.MinForwardSpeed {
			e.body.AddForce(core.V(e.cfg.MinForwardForce, 0), physics.ForceContinuous)
		}
	}

	e.body.Vel.X = core.ClampF(e.body.Vel.X, -e.cfg.MaxSpeed, e.cfg.MaxSpeed)
}

func (e *Engine) applyAirRotation(dt float64) {
	e.braking = false
	if math.Abs(e.inputDir) > 0.01 {
		e.body.MoveRotation(e.body.Rotation - e.inputDir*e.cfg.RotationSpeed*dt)
	}
}

func (e *Engine) applyJump() {
	if !e.jumpRequested {
		return
	}
	e.jumpRequested = false
	if !e.grounded {
		return
	}
	e.body.Vel.Y = 0
	e.body.AddForce(e.body.Up().Scale(e.cfg.JumpForce), physics.ForceImpulse)
	e.body.AddForce(core.V(e.facing*e.cfg.JumpForwardImpulse, 0), physics.ForceImpulse)
	e.grounded = false
}

// applyConstantForces drives forward progression along the board and faster
// descent every step.
func (e *Engine) applyConstantForces() {
	e.body.AddForce(e.body.Right().Scale(e.cfg.ConstantForce), physics.ForceContinuous)
	if e.body.Vel.Y < 0 && e.cfg.FallMultiplier > 1 {
		extra := (e.cfg.FallMultiplier - 1) * e.gravity * e.body.GravityScale * e.body.Mass
		e.body.AddForce(core.V(0, extra), physics.ForceContinuous)
	}
}

// nearestWinding returns the angle equivalent to target closest to current.
func nearestWinding(current, target float64) float64 {
	return target + 360*math.Round((current-target)/360)
}

// ApplySpeedBoost multiplies the move force for the configured duration.
// A boost picked up while boosted is ignored.
func (e *Engine) ApplySpeedBoost() {
	if e.boost.active {
		return
	}
	e.boost.gen++
	gen := e.boost.gen
	e.boost.active = true
	e.boost.multiplier = e.powers.BoostMultiplier
	e.boost.baseForce = e.moveForce
	e.boost.until = e.tasks.Now() + e.powers.BoostDuration
	e.moveForce *= e.powers.BoostMultiplier

	e.tasks.After(e.powers.BoostDuration, func() {
		if e.boost.gen != gen || !e.boost.active {
			return
		}
		e.moveForce = e.boost.baseForce
		e.boost.active = false
	})
}

// ApplyShield activates the shield, replacing any remaining duration.
func (e *Engine) ApplyShield() {
	e.shield.gen++
	gen := e.shield.gen
	e.shield.active = true
	e.shield.until = e.tasks.Now() + e.powers.ShieldDuration

	e.tasks.After(e.powers.ShieldDuration, func() {
		if e.shield.gen == gen {
			e.shield.active = false
		}
	})
}

// AddExtraLife increments the extra life counter.
func (e *Engine) AddExtraLife() {
	e.extraLives++
}

// ConsumeShield uses the shield if active.
func (e *Engine) ConsumeShield() bool {
	if !e.shield.active {
		return false
	}
	e.shield.active = false
	e.shield.gen++
	return true
}

// ConsumeExtraLife uses one extra life if any remain.
func (e *Engine) ConsumeExtraLife() bool {
	if e.extraLives <= 0 {
		return false
	}
	e.extraLives--
	return true
}

// CorrectRotation stops the body, turns it upright and lifts it clear of the surface.
func (e *Engine) CorrectRotation() {
	e.body.Stop()
	e.body.MoveRotation(nearestWinding(e.body.Rotation, 0))
	e.body.Pos.Y += e.cfg.CorrectLift
}

// Unstick lifts the body and zeroes its velocity.
func (e *Engine) Unstick() {
	e.body.Pos.Y += e.cfg.UnstickLift
	e.body.Vel = core.Vec2{}
}

// DisableControls stops input-driven forces for the rest of the run.
func (e *Engine) DisableControls() {
	e.controlsEnabled = false
	e.jumpRequested = false
	e.inputDir = 0
	e.braking = false
	e.body.Stop()
}

// Position implements View.
func (e *Engine) Position() core.Vec2 { return e.body.Pos }

// Rotation implements View.
func (e *Engine) Rotation() float64 { return e.body.Rotation }

// Grounded implements View.
func (e *Engine) Grounded() bool { return e.grounded }

// HeadPosition returns the world position of the rider's head.
func (e *Engine) HeadPosition() core.Vec2 {
	return e.body.Pos.Add(e.body.Up().Scale(e.cfg.HeadHeight))
}

// Velocity returns the body velocity.
func (e *Engine) Velocity() core.Vec2 { return e.body.Vel }

// Body exposes the physics body for tests and debug views.
func (e *Engine) Body() *physics.Body { return e.body }

// ControlsEnabled reports whether input still drives the rider.
func (e *Engine) ControlsEnabled() bool { return e.controlsEnabled }

// Shielded reports whether the shield is active.
func (e *Engine) Shielded() bool { return e.shield.active }

// Boosted reports whether a speed boost is active.
func (e *Engine) Boosted() bool { return e.boost.active }

// ExtraLives returns the extra life count.
func (e *Engine) ExtraLives() int { return e.extraLives }

// MoveForce returns the current move force, including any boost.
func (e *Engine) MoveForce() float64 { return e.moveForce }

// Landings returns how many times the rider has landed since Reset.
func (e *Engine) Landings() int { return e.landings }

// LandingRotation returns the rotation recorded at the last landing.
func (e *Engine) LandingRotation() float64 { return e.landingRotation }

// SourceName returns the name of the active input source.
func (e *Engine) SourceName() string { return e.source.Name() }

// State returns a copy of the player state.
func (e *Engine) State() State {
	s := State{
		Pos:             e.body.Pos,
		Vel:             e.body.Vel,
		Rotation:        e.body.Rotation,
		Grounded:        e.grounded,
		Braking:         e.braking,
		InputDir:        e.inputDir,
		Facing:          e.facing,
		Speed:           e.speed,
		ControlsEnabled: e.controlsEnabled,
		Shield:          e.shield.active,
		Boost:           e.boost.active,
		ExtraLives:      e.extraLives,
	}
	if e.shield.active {
		s.ShieldRemaining = math.Max(0, e.shield.until-e.now)
	}
	if e.boost.active {
		s.BoostMultiplier = e.boost.multiplier
		s.BoostRemaining = math.Max(0, e.boost.until-e.now)
	}
	return s
}

// State is a snapshot of the player.
type State struct {
	Pos             core.Vec2
	Vel             core.Vec2
	Rotation        float64
	Grounded        bool
	Braking         bool
	InputDir        float64
	Facing          float64
	Speed           float64
	ControlsEnabled bool
	Shield          bool
	ShieldRemaining float64
	Boost           bool
	BoostMultiplier float64
	BoostRemaining  float64
	ExtraLives      int
}
