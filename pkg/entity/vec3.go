package entity

import "math"

// Vec3 is a double-precision 3-vector, used for both position and velocity.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Near reports whether v and o agree within eps on every axis, the
// position/velocity equality check the collision cache hit test relies on.
func (v Vec3) Near(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) < eps && math.Abs(v.Y-o.Y) < eps && math.Abs(v.Z-o.Z) < eps
}
