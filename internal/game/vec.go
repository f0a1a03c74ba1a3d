package game

import "math"

// Vec2 is a position or velocity on the play plane.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a per-axis rate, used for asteroid spin.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Perp() Vec2           { return Vec2{-v.Y, v.X} }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Normalize returns the unit vector in v's direction, or the zero vector
// when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// ClampLen limits the vector's magnitude to max.
func (v Vec2) ClampLen(max float64) Vec2 {
	if l := v.Len(); l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

// FromAngle returns the unit vector at angle radians.
func FromAngle(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// Lerp moves a toward b by t, with t clamped to [0,1].
func Lerp(a, b Vec2, t float64) Vec2 {
	t = math.Max(0, math.Min(1, t))
	return a.Add(b.Sub(a).Scale(t))
}
