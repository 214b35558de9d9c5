package octree

import "math/bits"

// GetNode resolves path to a materialized node and its arena index.
// It fails with ErrInvalidMask if a path byte is not one-hot and with
// ErrNodeNotFound if any level along the path is missing.
func (t *SparseOctree[T]) GetNode(path []uint8) (Node[T], int, error) {
	index := 0

	for _, mask := range path {
		if bits.OnesCount8(mask) != 1 {
			return Node[T]{}, 0, ErrInvalidMask
		}

		node := t.nodes[index]
		if node.valid&mask == 0 || node.child == Sentinel {
			return Node[T]{}, 0, ErrNodeNotFound
		}
		index = int(node.child) + childOffset(node.valid, mask)
	}

	return t.nodes[index], index, nil
}

// GetNodeOrParent resolves path as far as it is materialized and returns
// the deepest node reached, its index, and its level (0 is the root).
func (t *SparseOctree[T]) GetNodeOrParent(path []uint8) (Node[T], int, int, error) {
	index := 0

	for level, mask := range path {
		if bits.OnesCount8(mask) != 1 {
			return Node[T]{}, 0, 0, ErrInvalidMask
		}

		node := t.nodes[index]
		if node.valid&mask == 0 || node.child == Sentinel {
			return node, index, level, nil
		}
		index = int(node.child) + childOffset(node.valid, mask)
	}

	return t.nodes[index], index, len(path), nil
}

// HasData reports whether the cell or subtree addressed by path carries a
// value, either directly or through a collapsed ancestor.
func (t *SparseOctree[T]) HasData(path []uint8) bool {
	node, _, _, err := t.GetNodeOrParent(path)
	return err == nil && node.hasData
}

// NodeData returns the payload of the node at path. Unlike Query it does
// not fall back to ancestors: a missing node yields ErrNodeNotFound and a
// materialized node without payload yields ErrNoData.
func (t *SparseOctree[T]) NodeData(path []uint8) (T, error) {
	node, _, err := t.GetNode(path)
	if err != nil {
		var zero T
		return zero, err
	}
	if !node.hasData {
		var zero T
		return zero, ErrNoData
	}
	return node.data, nil
}
