// Package math provides integer cell coordinates for voxel grids.
package math

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3i is an integer cell coordinate.
type Vec3i struct {
	X, Y, Z int
}

// Add returns v + other.
func (v Vec3i) Add(other Vec3i) Vec3i {
	return Vec3i{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3i) Sub(other Vec3i) Vec3i {
	return Vec3i{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v Vec3i) Scale(s int) Vec3i {
	return Vec3i{v.X * s, v.Y * s, v.Z * s}
}

// Abs returns the component-wise absolute value.
func (v Vec3i) Abs() Vec3i {
	return Vec3i{abs(v.X), abs(v.Y), abs(v.Z)}
}

// Min returns the component-wise minimum.
func (v Vec3i) Min(other Vec3i) Vec3i {
	return Vec3i{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3i) Max(other Vec3i) Vec3i {
	return Vec3i{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// Within reports whether every component lies in [0, edge).
func (v Vec3i) Within(edge int) bool {
	return v.X >= 0 && v.Y >= 0 && v.Z >= 0 &&
		v.X < edge && v.Y < edge && v.Z < edge
}

// Point returns the cell as a homogeneous point (w = 1).
func (v Vec3i) Point() mgl32.Vec4 {
	return mgl32.Vec4{float32(v.X), float32(v.Y), float32(v.Z), 1}
}

// Direction returns the cell as a homogeneous direction (w = 0).
func (v Vec3i) Direction() mgl32.Vec4 {
	return mgl32.Vec4{float32(v.X), float32(v.Y), float32(v.Z), 0}
}

// Vec3 returns the coordinate as a float vector.
func (v Vec3i) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// String returns "(x,y,z)".
func (v Vec3i) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
