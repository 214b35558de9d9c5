// Package voxel defines the per-cell payload stored in the world octree.
package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Id is the material tag of a voxel.
type Id uint32

// Material constants. Error is the zero value and means "no voxel".
const (
	Error Id = 0
	Air   Id = 1
	Grass Id = 2
	Water Id = 3
	Dirt  Id = 4
)

// String returns a human-readable material name.
func (id Id) String() string {
	switch id {
	case Error:
		return "Error"
	case Air:
		return "Air"
	case Grass:
		return "Grass"
	case Water:
		return "Water"
	case Dirt:
		return "Dirt"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(id))
	}
}

// Valid reports whether id is one of the known materials.
func (id Id) Valid() bool {
	return id <= Dirt
}

// Voxel is a single cell of the world.
type Voxel struct {
	ID Id
}

// IsTransparent returns true if light passes through the voxel.
func (v Voxel) IsTransparent() bool {
	return v.ID == Air
}

// Base colors per material (linear RGBA).
var baseColors = map[Id]mgl32.Vec4{
	Error: {1.0, 0.0, 1.0, 1.0},
	Air:   {0.0, 0.0, 0.0, 0.0},
	Grass: {0.34, 0.62, 0.22, 1.0},
	Water: {0.18, 0.38, 0.78, 0.6},
	Dirt:  {0.45, 0.32, 0.2, 1.0},
}

// shadeVariance is the maximum brightness deviation applied by Albedo.
const shadeVariance = 0.06

// Albedo returns the surface color of the voxel at position.
// The result is a pure function of the material and the cell, so meshes
// rebuilt from the same tree are bit-identical.
func (v Voxel) Albedo(position mgl32.Vec4) mgl32.Vec4 {
	base, ok := baseColors[v.ID]
	if !ok {
		base = baseColors[Error]
	}
	if v.IsTransparent() {
		return base
	}

	shade := 1 + shadeVariance*(2*cellNoise(position)-1)
	return mgl32.Vec4{
		clamp01(base[0] * shade),
		clamp01(base[1] * shade),
		clamp01(base[2] * shade),
		base[3],
	}
}

// cellNoise hashes integer cell coordinates into [0, 1].
func cellNoise(p mgl32.Vec4) float32 {
	h := uint32(int32(p[0]))*73856093 ^ uint32(int32(p[1]))*19349663 ^ uint32(int32(p[2]))*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return float32(h&0xffff) / 0xffff
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
