package octree

import "errors"

// Lookup and construction errors.
var (
	ErrNodeNotFound = errors.New("octree: node not found")
	ErrInvalidMask  = errors.New("octree: path mask is not a single octant")
	ErrNoData       = errors.New("octree: node has no data")
	ErrInvalidDepth = errors.New("octree: invalid depth")
	ErrCorrupt      = errors.New("octree: corrupt node arena")
)
