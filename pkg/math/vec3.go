package math

import "math"

// Vec3 is a 3D vector. It is used for tangent-space normals.
type Vec3 struct {
	X, Y, Z float32
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// EncodeNormal maps a unit normal from [-1,1] to the usual 8-bit RGB encoding.
// The flat normal (0,0,1) encodes as (128,128,255).
func (v Vec3) EncodeNormal() (r, g, b uint8) {
	enc := func(c float32) uint8 {
		f := (c*0.5 + 0.5) * 255
		if f < 0 {
			f = 0
		} else if f > 255 {
			f = 255
		}
		return uint8(f + 0.5)
	}
	return enc(v.X), enc(v.Y), enc(v.Z)
}
