package octree

import "math"

// Reserved index and key values.
const (
	// Sentinel marks a node without a child block.
	Sentinel uint32 = math.MaxUint32
	// Tombstone is the Morton key of a node pending removal.
	Tombstone uint64 = math.MaxUint64
)

// Node is one entry of the octree arena.
//
// When child != Sentinel, popcount(valid) contiguous nodes start at child,
// ordered by ascending octant bit. Payloads are present on leaves, on
// collapsed subtrees, and on nodes created underneath a collapsed subtree.
type Node[T comparable] struct {
	child   uint32
	valid   uint8
	morton  uint64
	data    T
	hasData bool
}

// MakeNode builds a node from raw fields. It is used when restoring an arena
// from a snapshot; Restore validates the result.
func MakeNode[T comparable](child uint32, valid uint8, morton uint64, data T, hasData bool) Node[T] {
	return Node[T]{child: child, valid: valid, morton: morton, data: data, hasData: hasData}
}

// tombstone returns a default node: no children, no payload, pending removal.
func tombstone[T comparable]() Node[T] {
	return Node[T]{child: Sentinel, morton: Tombstone}
}

// Child returns the index of the first child, or Sentinel.
func (n Node[T]) Child() uint32 {
	return n.child
}

// Valid returns the octant occupancy mask.
func (n Node[T]) Valid() uint8 {
	return n.valid
}

// Morton returns the node's sort key.
func (n Node[T]) Morton() uint64 {
	return n.morton
}

// Data returns the payload and whether one is present.
func (n Node[T]) Data() (T, bool) {
	return n.data, n.hasData
}

// IsLeaf returns true if the node has no child block.
func (n Node[T]) IsLeaf() bool {
	return n.child == Sentinel
}

// IsTombstone returns true if the node is pending removal.
func (n Node[T]) IsTombstone() bool {
	return n.morton == Tombstone
}
