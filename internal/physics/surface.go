package physics

import (
	"math"

	"github.com/vovakirdan/snowrun/internal/core"
)

// Segment is a straight piece of collision surface.
type Segment struct {
	A, B  core.Vec2
	Layer Layer
}

// SpansX reports whether x lies within the segment's horizontal extent.
func (s Segment) SpansX(x float64) bool {
	lo, hi := s.A.X, s.B.X
	if lo > hi {
		lo, hi = hi, lo
	}
	return x >= lo && x <= hi
}

// YAt returns the segment height at x. Vertical segments return the higher end.
func (s Segment) YAt(x float64) float64 {
	dx := s.B.X - s.A.X
	if dx == 0 {
		return math.Max(s.A.Y, s.B.Y)
	}
	t := (x - s.A.X) / dx
	return s.A.Y + t*(s.B.Y-s.A.Y)
}

// Normal returns the unit normal on the upper side of the segment.
func (s Segment) Normal() core.Vec2 {
	d := s.B.Sub(s.A)
	n := core.V(-d.Y, d.X).Normalize()
	if n.Y < 0 {
		n = n.Scale(-1)
	}
	return n
}

// SlopeDeg returns the slope angle in degrees, left to right.
func (s Segment) SlopeDeg() float64 {
	a, b := s.A, s.B
	if a.X > b.X {
		a, b = b, a
	}
	return core.AngleOf(b.Sub(a))
}

// ClosestPoint returns the point on the segment nearest to p.
func (s Segment) ClosestPoint(p core.Vec2) core.Vec2 {
	d := s.B.Sub(s.A)
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.A
	}
	t := core.Clamp01(p.Sub(s.A).Dot(d) / l2)
	return s.A.Add(d.Scale(t))
}

// OverlapCircle reports whether a circle touches any segment in mask.
func OverlapCircle(segs []Segment, center core.Vec2, radius float64, mask Layer) bool {
	for _, s := range segs {
		if !mask.Has(s.Layer) {
			continue
		}
		if s.ClosestPoint(center).Sub(center).Len() <= radius {
			return true
		}
	}
	return false
}

// Hit describes a ray cast result.
type Hit struct {
	Point    core.Vec2
	Normal   core.Vec2
	Distance float64
}

// Raycast returns the nearest segment hit along dir within maxDist.
func Raycast(segs []Segment, origin, dir core.Vec2, maxDist float64, mask Layer) (Hit, bool) {
	dir = dir.Normalize()
	if dir == (core.Vec2{}) || maxDist <= 0 {
		return Hit{}, false
	}

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, s := range segs {
		if !mask.Has(s.Layer) {
			continue
		}
		e := s.B.Sub(s.A)
		denom := dir.Cross(e)
		if denom == 0 {
			continue // parallel
		}
		w := s.A.Sub(origin)
		t := w.Cross(e) / denom // distance along the ray
		u := w.Cross(dir) / denom
		if t < 0 || t > maxDist || u < 0 || u > 1 {
			continue
		}
		if t < best.Distance {
			best = Hit{Point: origin.Add(dir.Scale(t)), Normal: s.Normal(), Distance: t}
			found = true
		}
	}
	return best, found
}

// SurfaceAt returns the highest segment in mask spanning x.
func SurfaceAt(segs []Segment, x float64, mask Layer) (Segment, float64, bool) {
	var best Segment
	bestY := math.Inf(-1)
	found := false
	for _, s := range segs {
		if !mask.Has(s.Layer) || !s.SpansX(x) {
			continue
		}
		if y := s.YAt(x); y > bestY {
			best, bestY, found = s, y, true
		}
	}
	return best, bestY, found
}

// BelowSurface reports whether p is under the surface in mask.
func BelowSurface(segs []Segment, p core.Vec2, mask Layer) bool {
	_, y, ok := SurfaceAt(segs, p.X, mask)
	return ok && p.Y < y
}

// Contact is the result of resolving a body against the surface.
type Contact struct {
	Normal   core.Vec2
	SlopeDeg float64
}

// ResolveGround pushes the body out of the surface under it and removes the
// velocity component going into the surface. Penetrations deeper than
// maxDepth are left alone: the body fell past the surface and keeps falling.
func ResolveGround(b *Body, segs []Segment, mask Layer, maxDepth float64) (Contact, bool) {
	seg, y, ok := SurfaceAt(segs, b.Pos.X, mask)
	if !ok || b.Pos.Y >= y || y-b.Pos.Y > maxDepth {
		return Contact{}, false
	}

	b.Pos.Y = y
	n := seg.Normal()
	if vn := b.Vel.Dot(n); vn < 0 {
		b.Vel = b.Vel.Sub(n.Scale(vn))
	}
	return Contact{Normal: n, SlopeDeg: seg.SlopeDeg()}, true
}
