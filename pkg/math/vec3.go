// Package math provides the float32 vector math shared by the baking
// pipeline, the follower query path and the preview renderer.
package math

import "github.com/chewxy/math32"

// Epsilon is the floor applied to denominators that may collapse to zero
// when consecutive points coincide.
const Epsilon float32 = 1e-6

// Vec3 is a 3D vector.
//
// Every product below is rounded with an explicit float32 conversion before
// it is added, so the compiler cannot fuse it into an FMA on architectures
// that have one. Baked strokes depend on these results bit for bit.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{float32(v.X * s), float32(v.Y * s), float32(v.Z * s)}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return float32(v.X*other.X) + float32(v.Y*other.Y) + float32(v.Z*other.Z)
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		float32(v.Y*other.Z) - float32(v.Z*other.Y),
		float32(v.Z*other.X) - float32(v.X*other.Z),
		float32(v.X*other.Y) - float32(v.Y*other.X),
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return math32.Sqrt(float32(v.X*v.X) + float32(v.Y*v.Y) + float32(v.Z*v.Z))
}

// Normalize returns a unit vector, or the zero vector for a zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Min returns the component-wise minimum of v and other.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{math32.Min(v.X, other.X), math32.Min(v.Y, other.Y), math32.Min(v.Z, other.Z)}
}

// Max returns the component-wise maximum of v and other.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{math32.Max(v.X, other.X), math32.Max(v.Y, other.Y), math32.Max(v.Z, other.Z)}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// Midpoint returns the point halfway between v and other.
func (v Vec3) Midpoint(other Vec3) Vec3 {
	return Vec3{float32((v.X + other.X) * 0.5), float32((v.Y + other.Y) * 0.5), float32((v.Z + other.Z) * 0.5)}
}

// Lerp interpolates from v to other. t=0 yields v and t=1 yields other
// exactly.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	s := 1 - t
	return Vec3{
		float32(v.X*s) + float32(other.X*t),
		float32(v.Y*s) + float32(other.Y*t),
		float32(v.Z*s) + float32(other.Z*t),
	}
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through a and b. When a and b coincide the distance to a is returned.
func DistanceToLine(p, a, b Vec3) float32 {
	ab := b.Sub(a)
	ap := p.Sub(a)
	l := ab.Length()
	if l < Epsilon {
		return ap.Length()
	}
	return ab.Cross(ap).Length() / l
}

// DistanceToSegment returns the distance from p to the closest point of the
// segment a-b.
func DistanceToSegment(p, a, b Vec3) float32 {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den < Epsilon*Epsilon {
		return p.Distance(a)
	}
	t := Clamp01(p.Sub(a).Dot(ab) / den)
	return p.Distance(a.Lerp(b, t))
}
