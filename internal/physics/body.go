// Package physics is the small 2D rigid body layer the rider rides on:
// force/impulse integration, collision layers, and segment-based surface
// queries (circle overlap, ray casts, ground contact).
package physics

import "github.com/vovakirdan/snowrun/internal/core"

// ForceMode selects how AddForce affects a body.
type ForceMode int

const (
	// ForceContinuous accumulates into the next Integrate call (scaled by dt/mass).
	ForceContinuous ForceMode = iota
	// ForceImpulse changes velocity immediately (scaled by 1/mass).
	ForceImpulse
)

// Body is a point-mass rigid body with orientation. Rotation is in degrees,
// counter-clockwise, and is not wrapped so full spins keep accumulating.
type Body struct {
	Pos          core.Vec2
	Vel          core.Vec2
	Rotation     float64
	AngularVel   float64 // degrees per second
	Mass         float64
	GravityScale float64

	force core.Vec2
}

// NewBody creates a body at pos with the given mass and unit gravity scale.
func NewBody(pos core.Vec2, mass float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	return &Body{
		Pos:          pos,
		Mass:         mass,
		GravityScale: 1,
	}
}

// Right returns the body's local +X axis in world space.
func (b *Body) Right() core.Vec2 {
	return core.FromAngle(b.Rotation)
}

// Up returns the body's local +Y axis in world space.
func (b *Body) Up() core.Vec2 {
	return core.FromAngle(b.Rotation + 90)
}

// AddForce applies f using the given mode.
func (b *Body) AddForce(f core.Vec2, mode ForceMode) {
	switch mode {
	case ForceImpulse:
		b.Vel = b.Vel.Add(f.Scale(1 / b.Mass))
	default:
		b.force = b.force.Add(f)
	}
}

// PendingForce returns the continuous force accumulated since the last step.
func (b *Body) PendingForce() core.Vec2 {
	return b.force
}

// MoveRotation sets the rotation directly (kinematic rotation).
func (b *Body) MoveRotation(deg float64) {
	b.Rotation = deg
}

// Stop zeroes linear and angular velocity and drops pending forces.
func (b *Body) Stop() {
	b.Vel = core.Vec2{}
	b.AngularVel = 0
	b.force = core.Vec2{}
}

// Integrate advances the body by dt using semi-implicit Euler.
func (b *Body) Integrate(dt float64, gravity core.Vec2) {
	accel := b.force.Scale(1 / b.Mass).Add(gravity.Scale(b.GravityScale))
	b.Vel = b.Vel.Add(accel.Scale(dt))
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Rotation += b.AngularVel * dt
	b.force = core.Vec2{}
}
