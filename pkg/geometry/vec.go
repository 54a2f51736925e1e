package geometry

import "math"

// Vec3 is a position in metres.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Norm() }

// Radial returns the distance of v from the z axis.
func (v Vec3) Radial() float64 { return math.Hypot(v.X, v.Y) }

// Array returns the coordinates as a fixed-size array.
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
