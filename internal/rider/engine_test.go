package rider

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/physics"
	"github.com/vovakirdan/snowrun/internal/sched"
)

const dt = 0.02

var flat = []physics.Segment{{A: core.V(-100, 0), B: core.V(100, 0), Layer: physics.LayerGround}}

func newTestEngine(t *testing.T, mutate func(*config.Config)) (*Engine, *sched.Queue, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	var buf bytes.Buffer
	q := sched.New()
	e := New(cfg, NewKeyboardSource(), q, log.New(&buf))
	e.Reset(core.V(0, 0))
	return e, q, &buf
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestGroundCheckLandsOnFlat(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	if !e.Grounded() {
		t.Fatal("rider on the surface is not grounded")
	}
	if e.Landings() != 1 {
		t.Errorf("Landings = %d, want 1", e.Landings())
	}

	e.Body().Pos = core.V(0, 5)
	e.FixedUpdate(dt, flat)
	if e.Grounded() {
		t.Error("rider 5 units up is grounded")
	}
}

func TestJumpIsEdgeTriggered(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)

	e.Update(0, frame(core.ActionJump))
	e.FixedUpdate(dt, flat)
	vy := e.Velocity().Y
	if vy < 10 {
		t.Fatalf("vertical velocity after jump = %v, want about 12", vy)
	}
	if e.Velocity().X <= 0 {
		t.Errorf("no forward impulse, vx = %v", e.Velocity().X)
	}

	// Held key: no second jump even if grounded again.
	e.Body().Pos = core.V(e.Body().Pos.X, 0)
	e.Body().Vel = core.Vec2{}
	e.FixedUpdate(dt, flat)
	e.Update(dt, frame(core.ActionJump))
	e.FixedUpdate(dt, flat)
	if e.Velocity().Y > 1 {
		t.Errorf("held jump fired again, vy = %v", e.Velocity().Y)
	}
}

func TestJumpIgnoredWhenAirborne(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.Body().Pos = core.V(0, 10)
	e.Update(0, frame(core.ActionJump))
	e.FixedUpdate(dt, flat)
	if e.Velocity().Y > 0 {
		t.Errorf("airborne jump applied, vy = %v", e.Velocity().Y)
	}

	// The request was consumed, landing later must not jump.
	e.Body().Pos = core.V(0, 0)
	e.FixedUpdate(dt, flat)
	e.FixedUpdate(dt, flat)
	if e.Velocity().Y > 0 {
		t.Errorf("stale jump request applied on landing, vy = %v", e.Velocity().Y)
	}
}

func TestBrakingOpposesTravel(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.V(5, 0)

	e.Update(0, frame(core.ActionLeft))
	e.FixedUpdate(dt, flat)
	if !e.State().Braking {
		t.Error("expected braking")
	}
	// brake 20*5/8 = 12.5 against travel, constant force 5 forward
	want := 5 - 7.5*dt
	if got := e.Velocity().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("vx = %v, want %v", got, want)
	}
}

func TestBrakeDeadzone(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.V(0.05, 0)

	e.Update(0, frame(core.ActionLeft))
	e.FixedUpdate(dt, flat)
	if e.State().Braking {
		t.Error("braking below deadzone")
	}
	if e.State().Facing != -1 {
		t.Errorf("facing = %v, want -1", e.State().Facing)
	}
}

func TestDampingWithoutInput(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.V(5, 0)

	e.Update(0, frame())
	e.FixedUpdate(dt, flat)
	want := 5*math.Pow(0.9, dt) + 5*dt
	if got := e.Velocity().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("vx = %v, want %v", got, want)
	}
}

func TestCoastingKeepsSpeedOverASecond(t *testing.T) {
	e, _, _ := newTestEngine(t, func(c *config.Config) { c.Rider.ConstantForce = 0 })
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.V(5, 0)

	e.Update(0, frame())
	for range 50 {
		e.FixedUpdate(dt, flat)
	}
	want := 5 * 0.9
	if got := e.Velocity().X; math.Abs(got-want) > 1e-6 {
		t.Errorf("vx after 1s = %v, want %v", got, want)
	}
}

func TestConstantForceFollowsBoard(t *testing.T) {
	cfg := config.DefaultConfig()
	e, _, _ := newTestEngine(t, nil)
	e.Body().Rotation = 90

	e.Update(0, frame())
	e.FixedUpdate(dt, nil)
	if e.Grounded() {
		t.Fatal("grounded without a surface")
	}
	if vx := e.Velocity().X; math.Abs(vx) > 1e-9 {
		t.Errorf("vx = %v, want 0 with the board pointing up", vx)
	}
	b := e.Body()
	want := (cfg.Rider.ConstantForce/b.Mass + cfg.Physics.Gravity*b.GravityScale) * dt
	if vy := e.Velocity().Y; math.Abs(vy-want) > 1e-9 {
		t.Errorf("vy = %v, want %v", vy, want)
	}
}

func TestViewBeforeReset(t *testing.T) {
	e := New(config.DefaultConfig(), nil, nil, log.New(&bytes.Buffer{}))
	if e.Position() != (core.Vec2{}) || e.Rotation() != 0 {
		t.Errorf("position = %v rotation = %v before reset", e.Position(), e.Rotation())
	}
	if e.Velocity() != (core.Vec2{}) {
		t.Errorf("velocity = %v before reset", e.Velocity())
	}
}

func TestMinForwardForceBelowMinSpeed(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.Vec2{}

	e.Update(0, frame())
	e.FixedUpdate(dt, flat)
	want := (2.0 + 5.0) * dt
	if got := e.Velocity().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("vx = %v, want %v", got, want)
	}
}

func TestSlowMultiplier(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.V(2, 0)

	e.Update(0, frame(core.ActionRight, core.ActionSlow))
	e.FixedUpdate(dt, flat)
	want := 2 + (10*0.5+5)*dt
	if got := e.Velocity().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("vx = %v, want %v", got, want)
	}
}

func TestSpeedClampedWhileGrounded(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.V(30, 0)

	e.Update(0, frame(core.ActionRight))
	e.FixedUpdate(dt, flat)
	limit := 8 + (10+5)*dt
	if got := e.Velocity().X; got > limit+1e-9 {
		t.Errorf("vx = %v, want <= %v", got, limit)
	}
}

func TestAirRotation(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.Body().Pos = core.V(0, 50)

	e.Update(0, frame(core.ActionRight))
	for i := 0; i < 10; i++ {
		e.FixedUpdate(dt, flat)
	}
	want := -200 * dt * 10
	if got := e.Rotation(); math.Abs(got-want) > 1e-9 {
		t.Errorf("rotation = %v, want %v", got, want)
	}

	e.Update(0, frame(core.ActionLeft))
	for i := 0; i < 10; i++ {
		e.FixedUpdate(dt, flat)
	}
	if got := e.Rotation(); math.Abs(got) > 1e-9 {
		t.Errorf("rotation = %v, want 0", got)
	}
}

func TestFallMultiplier(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.Body().Pos = core.V(0, 50)
	e.Body().Vel = core.V(0, -1)

	e.FixedUpdate(dt, flat)
	// gravity plus one extra gravity from the fall multiplier of 2
	want := -1 + 2*(-9.81)*dt
	if got := e.Velocity().Y; math.Abs(got-want) > 1e-9 {
		t.Errorf("vy = %v, want %v", got, want)
	}
}

func TestSpeedBoostDoesNotStack(t *testing.T) {
	e, q, _ := newTestEngine(t, nil)

	e.ApplySpeedBoost()
	e.ApplySpeedBoost()
	if got := e.MoveForce(); got != 15 {
		t.Fatalf("MoveForce = %v, want 15", got)
	}
	if !e.Boosted() {
		t.Fatal("not boosted")
	}

	q.Poll(2.9)
	if !e.Boosted() {
		t.Error("boost expired early")
	}
	q.Poll(3)
	if e.Boosted() {
		t.Error("boost did not expire")
	}
	if got := e.MoveForce(); got != 10 {
		t.Errorf("MoveForce after expiry = %v, want 10", got)
	}

	e.ApplySpeedBoost()
	if got := e.MoveForce(); got != 15 {
		t.Errorf("MoveForce after second boost = %v, want 15", got)
	}
}

func TestShieldRepickupReplacesExpiry(t *testing.T) {
	e, q, _ := newTestEngine(t, nil)

	e.ApplyShield()
	q.Poll(4)
	e.ApplyShield()
	q.Poll(5)
	if !e.Shielded() {
		t.Fatal("first expiry cancelled the replaced shield")
	}
	e.Update(5, frame())
	if rem := e.State().ShieldRemaining; math.Abs(rem-4) > 1e-9 {
		t.Errorf("ShieldRemaining = %v, want 4", rem)
	}
	q.Poll(9)
	if e.Shielded() {
		t.Error("shield did not expire")
	}
}

func TestShieldConsumedOnce(t *testing.T) {
	e, q, _ := newTestEngine(t, nil)
	e.ApplyShield()

	if !e.ConsumeShield() {
		t.Fatal("shield not consumed")
	}
	if e.ConsumeShield() {
		t.Error("shield consumed twice")
	}

	// The expiry of the consumed shield must not touch a later one.
	q.Poll(1)
	e.ApplyShield()
	q.Poll(5)
	if !e.Shielded() {
		t.Error("stale expiry removed a new shield")
	}
}

func TestExtraLivesNeverNegative(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.AddExtraLife()
	e.AddExtraLife()

	if !e.ConsumeExtraLife() || e.ExtraLives() != 1 {
		t.Fatalf("ExtraLives = %d, want 1", e.ExtraLives())
	}
	if !e.ConsumeExtraLife() || e.ExtraLives() != 0 {
		t.Fatalf("ExtraLives = %d, want 0", e.ExtraLives())
	}
	if e.ConsumeExtraLife() {
		t.Error("consumed a life that does not exist")
	}
	if e.ExtraLives() != 0 {
		t.Errorf("ExtraLives = %d, want 0", e.ExtraLives())
	}
}

func TestCorrectRotationAndUnstick(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.Body().Pos = core.V(3, -0.5)
	e.Body().Rotation = 530
	e.Body().Vel = core.V(4, -3)

	e.CorrectRotation()
	if e.Rotation() != 360 {
		t.Errorf("rotation = %v, want 360", e.Rotation())
	}
	if e.Velocity() != (core.Vec2{}) {
		t.Errorf("velocity = %v, want zero", e.Velocity())
	}
	if e.Position().Y != 0.5 {
		t.Errorf("y = %v, want 0.5", e.Position().Y)
	}

	e.Body().Vel = core.V(1, 1)
	e.Unstick()
	if e.Position().Y != 2 {
		t.Errorf("y = %v, want 2", e.Position().Y)
	}
	if e.Velocity() != (core.Vec2{}) {
		t.Errorf("velocity = %v, want zero", e.Velocity())
	}
}

func TestDisableControlsStopsForces(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.FixedUpdate(dt, flat)
	e.Body().Vel = core.V(5, 0)

	e.DisableControls()
	e.Update(0, frame(core.ActionRight, core.ActionJump))
	e.FixedUpdate(dt, flat)
	if e.ControlsEnabled() {
		t.Error("controls still enabled")
	}
	if vx := e.Velocity().X; vx != 0 {
		t.Errorf("vx = %v, want 0", vx)
	}
	if vy := e.Velocity().Y; vy > 0 {
		t.Errorf("jump applied with controls disabled, vy = %v", vy)
	}
}

func TestMissingGroundCheckKeepsLastState(t *testing.T) {
	e, _, buf := newTestEngine(t, func(c *config.Config) { c.Rider.GroundProbe = nil })
	e.FixedUpdate(dt, flat)
	e.FixedUpdate(dt, flat)
	if e.Grounded() {
		t.Error("grounded without a probe")
	}
	if n := strings.Count(buf.String(), "ground probe not set"); n != 1 {
		t.Errorf("probe warning logged %d times, want 1", n)
	}
}

func TestEmptyGroundLayersFallBack(t *testing.T) {
	e, _, buf := newTestEngine(t, func(c *config.Config) { c.Rider.GroundLayers = nil })
	if !strings.Contains(buf.String(), "no ground layer configured") {
		t.Errorf("missing fallback warning: %q", buf.String())
	}
	e.FixedUpdate(dt, flat)
	if !e.Grounded() {
		t.Error("fallback mask does not see the ground")
	}

	player := []physics.Segment{{A: core.V(-100, 0), B: core.V(100, 0), Layer: physics.LayerPlayer}}
	e.Body().Pos = core.V(0, 0)
	e.FixedUpdate(dt, player)
	if e.Grounded() {
		t.Error("fallback mask includes the player layer")
	}
}

func TestLandingAlignsToSlope(t *testing.T) {
	slope := []physics.Segment{{A: core.V(-10, 10), B: core.V(10, -10), Layer: physics.LayerGround}}
	e, _, _ := newTestEngine(t, nil)
	e.Body().Rotation = 350
	e.Body().Pos = core.V(0, -0.01)

	e.FixedUpdate(dt, slope)
	if got := e.Rotation(); math.Abs(got-315) > 1e-9 {
		t.Errorf("rotation = %v, want 315", got)
	}
}

func TestUpsideDownLandingKeepsRotation(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	e.Body().Rotation = 180
	e.Body().Pos = core.V(0, -0.01)

	e.FixedUpdate(dt, flat)
	if got := e.Rotation(); got != 180 {
		t.Errorf("rotation = %v, want 180", got)
	}
	if head := e.HeadPosition(); head.Y >= 0 {
		t.Errorf("head y = %v, want below the surface", head.Y)
	}
}
