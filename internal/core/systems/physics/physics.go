package physics

import "math"

type Vec2 struct{ Xv, Yv float64 }

func (v Vec2) X() float64 { return v.Xv }
func (v Vec2) Y() float64 { return v.Yv }

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.Xv + o.Xv, v.Yv + o.Yv} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.Xv - o.Xv, v.Yv - o.Yv} }
func (v Vec2) Scale(f float64) Vec2    { return Vec2{v.Xv * f, v.Yv * f} }
func (v Vec2) Equal(o Vec2) bool       { return v.Xv == o.Xv && v.Yv == o.Yv }
func (v Vec2) Sign() Vec2              { return Vec2{sign(v.Xv), sign(v.Yv)} }
func (v Vec2) Distance(o Vec2) float64 { return Distance2(v.Xv, v.Yv, o.Xv, o.Yv) }

// Bounds is the inclusive rectangle [0, Width-1] x [0, Height-1].
type Bounds struct {
	Width, Height int
}

func (b Bounds) MaxX() float64 { return float64(b.Width - 1) }
func (b Bounds) MaxY() float64 { return float64(b.Height - 1) }

// Clamp pins p inside the bounds.
func (b Bounds) Clamp(p Vec2) Vec2 {
	return Vec2{clamp(p.Xv, 0, b.MaxX()), clamp(p.Yv, 0, b.MaxY())}
}

// Integrate advances b by one explicit Euler step under gravity and resolves
// the hard floor at MaxY. It reports whether the body ended on the floor.
func Integrate(b Body, gravity float64, bounds Bounds) (grounded bool) {
	vel := b.Velocity()
	vel.Yv += gravity
	pos := bounds.Clamp(b.Position().Add(vel))
	if pos.Yv >= bounds.MaxY() {
		pos.Yv = bounds.MaxY()
		vel.Yv = 0
		grounded = true
	}
	b.SetPosition(pos)
	b.SetVelocity(vel)
	return grounded
}

// Direction returns the per-axis unit step (-1, 0 or 1) from a toward b.
func Direction(from, to Vec2) Vec2 {
	return to.Sub(from).Sign()
}

// Distance2 computes Euclidean distance between two 2D points.
func Distance2(x1, y1, x2, y2 float64) float64 { return math.Hypot(x2-x1, y2-y1) }

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

func clamp(f, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, f))
}
