package octree

import (
	"fmt"
	"math/bits"
)

// Restore rebuilds a tree from a node arena, typically one produced by
// Nodes after Optimize and read back from disk. The arena is validated
// against the sibling block invariants.
func Restore[T comparable](depth int, nodes []Node[T], opts ...Option) (*SparseOctree[T], error) {
	t, err := New[T](depth, opts...)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty arena", ErrCorrupt)
	}
	if nodes[0].IsTombstone() {
		return nil, fmt.Errorf("%w: root is a tombstone", ErrCorrupt)
	}

	for i, n := range nodes {
		if n.IsTombstone() {
			continue
		}
		if n.child == Sentinel {
			if n.valid != 0 {
				return nil, fmt.Errorf("%w: node %d has mask %08b without children", ErrCorrupt, i, n.valid)
			}
			continue
		}
		if n.valid == 0 {
			return nil, fmt.Errorf("%w: node %d has children but empty mask", ErrCorrupt, i)
		}
		end := uint64(n.child) + uint64(bits.OnesCount8(n.valid))
		if end > uint64(len(nodes)) {
			return nil, fmt.Errorf("%w: node %d child block [%d,%d) exceeds arena of %d", ErrCorrupt, i, n.child, end, len(nodes))
		}
		if n.child == 0 {
			return nil, fmt.Errorf("%w: node %d points at the root", ErrCorrupt, i)
		}
		for j := n.child; j < uint32(end); j++ {
			if nodes[j].IsTombstone() {
				return nil, fmt.Errorf("%w: node %d child %d is a tombstone", ErrCorrupt, i, j)
			}
		}
	}

	t.nodes = nodes
	return t, nil
}
