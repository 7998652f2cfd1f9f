package geom

import "math"

// Vec2 is a 2D vector in tile units. +X is east, +Y is north.
type Vec2 struct {
	X, Y float64
}

func V2(x, y float64) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y) }
func (v Vec2) LenSq() float64       { return v.X*v.X + v.Y*v.Y }

// Dist returns the euclidean distance between two points
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l < 1e-10 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp interpolates without clamping t
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// ApproxEqual compares component-wise within eps
func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Headings are compass angles in degrees, clockwise from north.

// Forward returns the unit vector a body with the given heading faces.
func Forward(heading float64) Vec2 {
	s, c := math.Sincos(heading * math.Pi / 180)
	return Vec2{s, c}
}

// Right returns the unit vector to the right of a body with the given heading.
func Right(heading float64) Vec2 {
	s, c := math.Sincos(heading * math.Pi / 180)
	return Vec2{c, -s}
}

// LerpAngle interpolates headings without wrapping or clamping
func LerpAngle(from, to, t float64) float64 {
	return from + (to-from)*t
}
