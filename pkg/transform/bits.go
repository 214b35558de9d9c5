package transform

import (
	"github.com/Faultbox/hexane/pkg/bitset"
	"github.com/Faultbox/hexane/pkg/math"
	"github.com/Faultbox/hexane/pkg/octree"
	"github.com/Faultbox/hexane/pkg/voxel"
)

// ToBitSet records which octant paths are materialized for the cells of
// regions, so a consumer can walk the implicit tree without the node arena.
//
// Bit 0 (the root) is always set. Each materialized prefix of a cell's path
// sets the bit returned by BitIndex. Levels are visited from the root down;
// the walk stops at the first missing level and after a leaf, since nothing
// below either can be materialized.
func ToBitSet(tree *octree.SparseOctree[voxel.Voxel], regions ...Region) *bitset.BitSet {
	bs := bitset.New()
	bs.Insert(0, true)

	for _, r := range regions {
		r.Clamp(tree.Edge()).Each(func(p math.Vec3i) {
			path := tree.PositionHierarchy(p.X, p.Y, p.Z)

			for level := 1; level <= len(path); level++ {
				node, _, err := tree.GetNode(path[:level])
				if err != nil {
					break
				}
				bs.Insert(BitIndex(path[:level]), true)
				if node.IsLeaf() {
					break
				}
			}
		})
	}

	return bs
}

// BitIndex returns the flat bit of an octant path: the number of nodes in
// all shallower complete levels, Σ 8^i for i < len(path), plus the path's
// position within its own level read as base-8 digits, last level least
// significant. The empty path (root) maps to 0.
func BitIndex(path []uint8) uint {
	var index, levelSize uint = 0, 1
	for range path {
		index += levelSize
		levelSize *= 8
	}

	var place uint = 1
	for i := len(path) - 1; i >= 0; i-- {
		index += uint(octree.Octant(path[i])) * place
		place *= 8
	}

	return index
}
