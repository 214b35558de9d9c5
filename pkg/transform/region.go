// Package transform materializes a voxel octree into consumer formats:
// a face mesh with ambient occlusion and a bit-packed existence map.
// Transforms only read the tree and return freshly allocated outputs.
package transform

import (
	"fmt"

	"github.com/Faultbox/hexane/pkg/math"
)

// Region is a half-open box of cells [Start, End).
type Region struct {
	Start math.Vec3i
	End   math.Vec3i
}

// Domain returns the region covering a whole cube of the given edge.
func Domain(edge int) Region {
	return Region{End: math.Vec3i{X: edge, Y: edge, Z: edge}}
}

// Clamp restricts r to the cube [0, edge)^3.
func (r Region) Clamp(edge int) Region {
	lo := math.Vec3i{}
	hi := math.Vec3i{X: edge, Y: edge, Z: edge}
	return Region{
		Start: r.Start.Max(lo).Min(hi),
		End:   r.End.Max(lo).Min(hi),
	}
}

// Empty returns true if r contains no cells.
func (r Region) Empty() bool {
	return r.End.X <= r.Start.X || r.End.Y <= r.Start.Y || r.End.Z <= r.Start.Z
}

// Volume returns the number of cells in r.
func (r Region) Volume() int {
	if r.Empty() {
		return 0
	}
	d := r.End.Sub(r.Start)
	return d.X * d.Y * d.Z
}

// Each calls fn for every cell of r in x, y, z order.
func (r Region) Each(fn func(p math.Vec3i)) {
	for x := r.Start.X; x < r.End.X; x++ {
		for y := r.Start.Y; y < r.End.Y; y++ {
			for z := r.Start.Z; z < r.End.Z; z++ {
				fn(math.Vec3i{X: x, Y: y, Z: z})
			}
		}
	}
}

// String returns "[start,end)".
func (r Region) String() string {
	return fmt.Sprintf("[%v,%v)", r.Start, r.End)
}
