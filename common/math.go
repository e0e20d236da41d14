package common

import (
	"math"
	"unsafe"
)

// Vec3 is a 3-component vector in the engine's world space.
// The coordinate contract shared by every package in this module is:
// sphere center at the origin, +Y is world up, and a geographic point
// (lat, lng) at distance d maps to
// (cos(lat)·cos(lng)·d, sin(lat)·d, cos(lat)·sin(lng)·d).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length.
// Returns the zero vector unchanged if v is shorter than Epsilon.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < Epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Clamp constrains x to the range [lo, hi].
//
// Parameters:
//   - x: the value to constrain
//   - lo, hi: the inclusive bounds
//
// Returns:
//   - float64: x clamped to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Lerp linearly interpolates from a toward b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EaseFactor returns the frame-rate-independent interpolation weight
// 1 − e^(−rate·dt). Stepping a value with Lerp(current, target, EaseFactor(rate, dt))
// converges the same way regardless of how dt is sliced across frames.
//
// Parameters:
//   - rate: convergence rate in 1/seconds (higher = snappier)
//   - dt: elapsed time in seconds
//
// Returns:
//   - float64: interpolation weight in [0, 1)
func EaseFactor(rate, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-rate*dt)
}

// WrapAngle normalizes an angle in radians to the range (−π, π].
func WrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates from angle a toward angle b by t along the
// shortest angular path. Both quantities wrap, so the raw difference is
// normalized into (−π, π] before scaling. The result is wrapped as well.
func LerpAngle(a, b, t float64) float64 {
	return WrapAngle(a + WrapAngle(b-a)*t)
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
