package octree

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Optimize compacts the arena in three passes:
//
//  1. merge: a fully occupied node whose eight children are childless and
//     hold equal values becomes a leaf holding that value; the children are
//     tombstoned. Children are visited before their parents, so uniform
//     regions collapse bottom-up in a single call.
//  2. compaction: tombstones are dropped and survivors sorted by Morton key.
//  3. re-link: each child pointer is rewritten by looking up the old child's
//     Morton key in the sorted arena.
//
// Queries return the same results before and after. All previously observed
// node indices are invalidated.
func (t *SparseOctree[T]) Optimize() {
	before := len(t.nodes)
	nodes := slices.Clone(t.nodes)

	merged := t.merge(nodes)

	live := nodes[:0]
	for _, n := range nodes {
		if !n.IsTombstone() {
			live = append(live, n)
		}
	}
	slices.SortStableFunc(live, func(a, b Node[T]) int {
		return cmp.Compare(a.morton, b.morton)
	})

	for i := range live {
		if live[i].child == Sentinel {
			continue
		}

		target := t.nodes[live[i].child].morton
		j, found := slices.BinarySearchFunc(live, target, func(n Node[T], key uint64) int {
			return cmp.Compare(n.morton, key)
		})
		if !found {
			panic(fmt.Sprintf("octree: child block %#x of node %#x lost during compaction", target, live[i].morton))
		}
		live[i].child = uint32(j)
	}

	t.nodes = live

	t.log.Debug("octree optimized",
		zap.Int("before", before),
		zap.Int("after", len(live)),
		zap.Int("merged", merged),
	)
}

// merge collapses uniform sibling blocks in place and returns the number of
// collapsed nodes.
//
// Morton keys grow with depth, so descending key order visits every child
// before its parent. After the first Optimize this is also descending index
// order.
func (t *SparseOctree[T]) merge(nodes []Node[T]) int {
	order := make([]int, 0, len(nodes))
	for i, n := range nodes {
		if !n.IsTombstone() && n.child != Sentinel && n.valid == 0xFF {
			order = append(order, i)
		}
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(nodes[b].morton, nodes[a].morton)
	})

	merged := 0
	for _, i := range order {
		children := nodes[nodes[i].child : nodes[i].child+8]
		if !uniform(children) {
			continue
		}

		nodes[i] = Node[T]{
			child:   Sentinel,
			morton:  nodes[i].morton,
			data:    children[0].data,
			hasData: true,
		}
		for j := range children {
			children[j] = tombstone[T]()
		}
		merged++
	}
	return merged
}

// uniform reports whether every node in block is a leaf holding the same
// value.
func uniform[T comparable](block []Node[T]) bool {
	first := block[0]
	for _, n := range block {
		if n.child != Sentinel || !n.hasData || n.data != first.data {
			return false
		}
	}
	return true
}
