package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/snowrun/internal/core"
)

func flat(y float64) []Segment {
	return []Segment{{A: core.V(-10, y), B: core.V(10, y), Layer: LayerGround}}
}

func TestImpulseChangesVelocityImmediately(t *testing.T) {
	b := NewBody(core.V(0, 0), 2)
	b.AddForce(core.V(4, 0), ForceImpulse)

	if b.Vel.X != 2 {
		t.Errorf("Impulse 4 on mass 2 should give vx=2, got %v", b.Vel.X)
	}
	if b.PendingForce() != (core.Vec2{}) {
		t.Error("Impulse should not accumulate as continuous force")
	}
}

func TestIntegrateAppliesForceAndGravity(t *testing.T) {
	b := NewBody(core.V(0, 10), 1)
	b.AddForce(core.V(10, 0), ForceContinuous)
	b.Integrate(0.5, core.V(0, -10))

	if b.Vel.X != 5 || b.Vel.Y != -5 {
		t.Errorf("Velocity after step = %v, expected (5, -5)", b.Vel)
	}
	if b.Pos.X != 2.5 || b.Pos.Y != 7.5 {
		t.Errorf("Position after step = %v, expected (2.5, 7.5)", b.Pos)
	}
	if b.PendingForce() != (core.Vec2{}) {
		t.Error("Continuous force should be cleared after integration")
	}
}

func TestBodyAxesFollowRotation(t *testing.T) {
	b := NewBody(core.Vec2{}, 1)
	b.MoveRotation(90)

	if r := b.Right(); math.Abs(r.X) > 1e-9 || math.Abs(r.Y-1) > 1e-9 {
		t.Errorf("Right() at 90 deg = %v", r)
	}
	if u := b.Up(); math.Abs(u.X+1) > 1e-9 || math.Abs(u.Y) > 1e-9 {
		t.Errorf("Up() at 90 deg = %v", u)
	}
}

func TestOverlapCircleRespectsMask(t *testing.T) {
	segs := flat(0)

	if !OverlapCircle(segs, core.V(0, 0.1), 0.2, LayerGround) {
		t.Error("Circle touching the ground should overlap")
	}
	if OverlapCircle(segs, core.V(0, 0.5), 0.2, LayerGround) {
		t.Error("Circle above the ground should not overlap")
	}
	if OverlapCircle(segs, core.V(0, 0.1), 0.2, LayerPickup) {
		t.Error("Mask without ground should ignore ground segments")
	}
}

func TestRaycastFindsNearestHit(t *testing.T) {
	segs := append(flat(0), Segment{A: core.V(-10, -2), B: core.V(10, -2), Layer: LayerGround})

	hit, ok := Raycast(segs, core.V(1, 1), core.V(0, -1), 5, LayerGround)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if math.Abs(hit.Distance-1) > 1e-9 || math.Abs(hit.Point.Y) > 1e-9 {
		t.Errorf("Expected nearest hit at y=0 distance 1, got %+v", hit)
	}
	if hit.Normal.Y <= 0 {
		t.Errorf("Normal should point up, got %v", hit.Normal)
	}

	if _, ok := Raycast(segs, core.V(1, 1), core.V(0, -1), 0.5, LayerGround); ok {
		t.Error("Ray shorter than the gap should miss")
	}
	if _, ok := Raycast(segs, core.V(1, 1), core.V(0, 1), 5, LayerGround); ok {
		t.Error("Upward ray should miss")
	}
}

func TestSurfaceAtSlope(t *testing.T) {
	segs := []Segment{{A: core.V(0, 0), B: core.V(10, -5), Layer: LayerGround}}

	seg, y, ok := SurfaceAt(segs, 4, LayerGround)
	if !ok {
		t.Fatal("Expected surface at x=4")
	}
	if math.Abs(y+2) > 1e-9 {
		t.Errorf("YAt(4) = %v, expected -2", y)
	}
	if slope := seg.SlopeDeg(); slope >= 0 {
		t.Errorf("Downhill slope should be negative, got %v", slope)
	}
	if _, _, ok := SurfaceAt(segs, 11, LayerGround); ok {
		t.Error("No surface past the segment end")
	}
	if !BelowSurface(segs, core.V(4, -3), LayerGround) {
		t.Error("Point under the slope should be below surface")
	}
}

func TestResolveGroundRemovesInwardVelocity(t *testing.T) {
	b := NewBody(core.V(0, -0.2), 1)
	b.Vel = core.V(3, -4)

	c, ok := ResolveGround(b, flat(0), LayerGround, 1)
	if !ok {
		t.Fatal("Expected contact")
	}
	if b.Pos.Y != 0 {
		t.Errorf("Body should be pushed to the surface, y=%v", b.Pos.Y)
	}
	if b.Vel.Y != 0 || b.Vel.X != 3 {
		t.Errorf("Inward velocity should be removed, got %v", b.Vel)
	}
	if c.Normal.Y != 1 {
		t.Errorf("Flat ground normal should be up, got %v", c.Normal)
	}
}

func TestResolveGroundIgnoresDeepPenetration(t *testing.T) {
	b := NewBody(core.V(0, -5), 1)
	if _, ok := ResolveGround(b, flat(0), LayerGround, 1); ok {
		t.Error("A body far below the surface should keep falling")
	}
	if b.Pos.Y != -5 {
		t.Error("Position should be untouched")
	}
}

func TestLayerParsingAndFallback(t *testing.T) {
	mask, unknown := ParseLayers([]string{"Ground", "lava"})
	if mask != LayerGround {
		t.Errorf("mask = %b, expected ground only", mask)
	}
	if len(unknown) != 1 || unknown[0] != "lava" {
		t.Errorf("unknown = %v", unknown)
	}

	m, fellBack := MaskOrAllExcept(0, LayerPlayer)
	if !fellBack {
		t.Error("Empty mask should fall back")
	}
	if m.Has(LayerPlayer) || !m.Has(LayerGround) {
		t.Error("Fallback mask should include everything except the player")
	}

	if m, fellBack := MaskOrAllExcept(LayerGround, LayerPlayer); fellBack || m != LayerGround {
		t.Error("Configured mask should be kept")
	}
}
