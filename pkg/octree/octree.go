// Package octree implements a sparse voxel octree stored as a flat node
// arena with compacted sibling blocks.
//
// Cells of a cube of edge 2^depth are addressed by their octant path. Only
// octants that were written are materialized; Optimize collapses uniform
// subtrees and canonicalizes storage order. Node indices are only stable
// between calls to Optimize.
//
// A SparseOctree is not safe for concurrent mutation. Read-only methods may
// run concurrently when no writer is active.
package octree

import (
	"fmt"
	"math/bits"

	"go.uber.org/zap"

	"github.com/Faultbox/hexane/pkg/math"
)

// Depth limits. A Morton key stores 3 bits per level behind a 3-bit
// sentinel, so 20 levels fill 63 bits and never reach Tombstone.
const (
	MaxDepth     = 20
	DefaultDepth = 10
)

// Option configures a SparseOctree.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for compaction diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// SparseOctree stores at most one T per unit cell.
type SparseOctree[T comparable] struct {
	size  int
	nodes []Node[T]
	log   *zap.Logger
}

// New creates an empty octree of the given depth.
func New[T comparable](depth int, opts ...Option) (*SparseOctree[T], error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidDepth, depth, MaxDepth)
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	return &SparseOctree[T]{
		size:  depth,
		nodes: []Node[T]{{child: Sentinel, morton: 0}},
		log:   o.logger,
	}, nil
}

// Size returns the depth of the tree.
func (t *SparseOctree[T]) Size() int {
	return t.size
}

// Edge returns the edge length of the addressable cube, 2^Size.
func (t *SparseOctree[T]) Edge() int {
	return 1 << t.size
}

// Contains reports whether pos is addressable.
func (t *SparseOctree[T]) Contains(pos math.Vec3i) bool {
	return pos.Within(t.Edge())
}

// Nodes returns the node arena for bulk upload. The slice must not be
// modified and is invalidated by Place and Optimize.
func (t *SparseOctree[T]) Nodes() []Node[T] {
	return t.nodes
}

// Len returns the number of arena entries, tombstones included.
func (t *SparseOctree[T]) Len() int {
	return len(t.nodes)
}

// PositionHierarchy returns the octant path of cell (x, y, z).
func (t *SparseOctree[T]) PositionHierarchy(x, y, z int) []uint8 {
	return Hierarchy(t.size, x, y, z)
}

// Place stores data at pos, materializing missing ancestors.
// Placing the same cell again overwrites it without allocating.
func (t *SparseOctree[T]) Place(pos math.Vec3i, data T) {
	index := t.addNode(t.PositionHierarchy(pos.X, pos.Y, pos.Z))
	t.nodes[index].data = data
	t.nodes[index].hasData = true
}

// Query returns the value stored at pos. Cells inside a collapsed subtree
// report the subtree's value.
func (t *SparseOctree[T]) Query(pos math.Vec3i) (T, bool) {
	node, _, _, err := t.GetNodeOrParent(t.PositionHierarchy(pos.X, pos.Y, pos.Z))
	if err != nil {
		var zero T
		return zero, false
	}
	return node.Data()
}

// addNode descends along path, creating missing octants, and returns the
// index of the terminal node.
//
// Creating an octant relocates the parent's whole sibling block to the end
// of the arena, so each new level costs O(block size). Interactive
// single-cell edits on a large tree are therefore expensive; batch Place
// calls followed by Optimize is the intended usage.
func (t *SparseOctree[T]) addNode(path []uint8) int {
	index := 0

	for level, mask := range path {
		node := t.nodes[index]
		if node.valid&mask != 0 && node.child != Sentinel {
			index = int(node.child) + childOffset(node.valid, mask)
			continue
		}
		index = t.growBlock(index, mask, MortonCode(path[:level+1]))
	}

	return index
}

// growBlock adds octant mask to the node at parent and returns the index of
// the new child.
func (t *SparseOctree[T]) growBlock(parent int, mask uint8, morton uint64) int {
	p := t.nodes[parent]
	if (p.valid != 0) != (p.child != Sentinel) {
		panic(fmt.Sprintf("octree: node %d has mask %08b but child %d", parent, p.valid, p.child))
	}
	if uint64(len(t.nodes)) >= uint64(Sentinel) {
		panic("octree: node arena exhausted")
	}

	valid := p.valid | mask
	offset := childOffset(valid, mask)
	count := bits.OnesCount8(valid)
	family := len(t.nodes)

	for i := 0; i < count; i++ {
		switch {
		case i == offset:
			// Inherit the parent's payload so a collapsed subtree keeps
			// answering for the cells the new child does not cover.
			t.nodes = append(t.nodes, Node[T]{
				child:   Sentinel,
				morton:  morton,
				data:    p.data,
				hasData: p.hasData,
			})
		default:
			old := int(p.child) + i
			if i > offset {
				old--
			}
			t.nodes = append(t.nodes, t.nodes[old])
			t.nodes[old] = tombstone[T]()
		}
	}

	t.nodes[parent].valid = valid
	t.nodes[parent].child = uint32(family)

	return family + offset
}

// Stats summarizes the arena.
type Stats struct {
	Nodes      int // arena entries
	Tombstones int // entries awaiting Optimize
	Leaves     int // live entries without children
	Filled     int // live entries carrying data
}

// Stats returns arena statistics.
func (t *SparseOctree[T]) Stats() Stats {
	s := Stats{Nodes: len(t.nodes)}
	for _, n := range t.nodes {
		if n.IsTombstone() {
			s.Tombstones++
			continue
		}
		if n.IsLeaf() {
			s.Leaves++
		}
		if n.hasData {
			s.Filled++
		}
	}
	return s
}
