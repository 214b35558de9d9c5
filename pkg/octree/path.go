package octree

import "math/bits"

// mortonSentinel prefixes every Morton key so that paths of different
// lengths never collide and deeper nodes always sort after shallower ones.
const mortonSentinel uint64 = 0x7

// Hierarchy returns the octant path of cell (x, y, z) in a tree of the given
// depth: one one-hot mask per level, most significant level first.
// The octant index at each level is px*4 + py*2 + pz.
//
// Coordinates outside [0, 2^depth) are not validated.
func Hierarchy(depth, x, y, z int) []uint8 {
	path := make([]uint8, depth)
	cursor := 1 << depth

	for i := range path {
		cursor >>= 1

		px, py, pz := half(x, cursor), half(y, cursor), half(z, cursor)
		path[i] = 1 << (px*4 + py*2 + pz)

		x -= px * cursor
		y -= py * cursor
		z -= pz * cursor
	}

	return path
}

func half(v, cursor int) int {
	if v >= cursor {
		return 1
	}
	return 0
}

// Octant returns the octant index (0..7) of a one-hot mask.
func Octant(mask uint8) int {
	return bits.TrailingZeros8(mask)
}

// MortonCode concatenates the octant indices of path, three bits per level,
// behind a leading 0b111 sentinel.
func MortonCode(path []uint8) uint64 {
	morton := mortonSentinel
	for _, mask := range path {
		morton = morton<<3 | uint64(Octant(mask))&0x7
	}
	return morton
}

// childOffset returns the position octant mask would occupy inside the
// compacted sibling block of a node with occupancy valid.
func childOffset(valid, mask uint8) int {
	return bits.OnesCount8(valid & (mask - 1))
}
