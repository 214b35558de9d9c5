package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/hexane/pkg/math"
	"github.com/Faultbox/hexane/pkg/mesh"
	"github.com/Faultbox/hexane/pkg/octree"
	"github.com/Faultbox/hexane/pkg/voxel"
)

var (
	dirt  = voxel.Voxel{ID: voxel.Dirt}
	grass = voxel.Voxel{ID: voxel.Grass}
	lit   = mgl32.Vec4{1, 1, 1, 1}
)

func newTree(t *testing.T, depth int) *octree.SparseOctree[voxel.Voxel] {
	t.Helper()
	tree, err := octree.New[voxel.Voxel](depth)
	require.NoError(t, err)
	return tree
}

func cell(x, y, z int) math.Vec3i {
	return math.Vec3i{X: x, Y: y, Z: z}
}

func normals(m *mesh.Mesh) []mgl32.Vec4 {
	out := make([]mgl32.Vec4, 0, len(m.Vertices))
	for _, v := range m.Vertices {
		out = append(out, v.Normal)
	}
	return out
}

func TestRegionClamp(t *testing.T) {
	r := Region{Start: cell(-3, 1, 2), End: cell(9, 3, 20)}.Clamp(4)

	assert.Equal(t, cell(0, 1, 2), r.Start)
	assert.Equal(t, cell(4, 3, 4), r.End)
	assert.Equal(t, 16, r.Volume())

	outside := Region{Start: cell(5, 5, 5), End: cell(8, 8, 8)}.Clamp(4)
	assert.True(t, outside.Empty())
	assert.Equal(t, 0, outside.Volume())
}

func TestRegionEach(t *testing.T) {
	var seen []math.Vec3i
	Region{Start: cell(0, 0, 0), End: cell(1, 2, 2)}.Each(func(p math.Vec3i) {
		seen = append(seen, p)
	})

	assert.Equal(t, []math.Vec3i{cell(0, 0, 0), cell(0, 0, 1), cell(0, 1, 0), cell(0, 1, 1)}, seen)
	assert.Equal(t, "[(0,0,0),(1,2,2))", Region{End: cell(1, 2, 2)}.String())
}

func TestToMeshLoneVoxel(t *testing.T) {
	tree := newTree(t, 3)
	tree.Place(cell(3, 4, 5), grass)

	m := ToMesh(tree, Domain(tree.Edge()))

	require.Len(t, m.Vertices, 6)
	assert.Empty(t, m.Indices)
	assert.Equal(t, []mgl32.Vec4{
		{0, 0, 1, 0},
		{0, 0, -1, 0},
		{1, 0, 0, 0},
		{-1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, -1, 0, 0},
	}, normals(m))

	for _, v := range m.Vertices {
		assert.Equal(t, mgl32.Vec4{3, 4, 5, 1}, v.Position)
		assert.Equal(t, lit, v.Ambient)
		assert.Equal(t, grass.Albedo(v.Position), v.Color)
	}
}

func TestToMeshSharedFaceCulled(t *testing.T) {
	tree := newTree(t, 3)
	tree.Place(cell(2, 2, 2), dirt)
	tree.Place(cell(3, 2, 2), dirt)

	m := ToMesh(tree, Domain(tree.Edge()))

	require.Len(t, m.Vertices, 10)
	for _, v := range m.Vertices {
		if v.Position.X() == 2 {
			assert.NotEqual(t, mgl32.Vec4{1, 0, 0, 0}, v.Normal)
		} else {
			assert.NotEqual(t, mgl32.Vec4{-1, 0, 0, 0}, v.Normal)
		}
	}
}

func TestToMeshDirtAtOrigin(t *testing.T) {
	tree := newTree(t, 2)
	tree.Place(cell(0, 0, 0), dirt)

	m := ToMesh(tree, Region{Start: cell(0, 0, 0), End: cell(1, 1, 1)})

	require.Len(t, m.Vertices, 6)
	for _, v := range m.Vertices {
		assert.Equal(t, lit, v.Ambient)
	}
}

func TestToMeshDomainBoundary(t *testing.T) {
	tree := newTree(t, 2)
	tree.Place(cell(3, 3, 3), dirt)

	m := ToMesh(tree, Domain(tree.Edge()))

	assert.Len(t, m.Vertices, 6)
}

func TestToMeshRegionFiltersVoxels(t *testing.T) {
	tree := newTree(t, 3)
	tree.Place(cell(0, 0, 0), dirt)
	tree.Place(cell(6, 6, 6), dirt)

	m := ToMesh(tree, Region{Start: cell(4, 4, 4), End: cell(100, 100, 100)})
	require.Len(t, m.Vertices, 6)
	assert.Equal(t, mgl32.Vec4{6, 6, 6, 1}, m.Vertices[0].Position)

	assert.Empty(t, ToMesh(tree, Region{Start: cell(1, 1, 1), End: cell(4, 4, 4)}).Vertices)
	assert.Empty(t, ToMesh(tree).Vertices)
}

func TestToMeshMultipleRegions(t *testing.T) {
	tree := newTree(t, 3)
	tree.Place(cell(0, 0, 0), dirt)
	tree.Place(cell(6, 6, 6), dirt)

	m := ToMesh(tree,
		Region{Start: cell(0, 0, 0), End: cell(1, 1, 1)},
		Region{Start: cell(6, 6, 6), End: cell(7, 7, 7)},
	)

	assert.Len(t, m.Vertices, 12)
}

func TestToMeshSolidBlock(t *testing.T) {
	tree := newTree(t, 1)
	Domain(tree.Edge()).Each(func(p math.Vec3i) { tree.Place(p, dirt) })

	m := ToMesh(tree, Domain(tree.Edge()))

	// 2x2x2 cube: four faces per side.
	assert.Len(t, m.Vertices, 24)
}

func TestToMeshCollapsedTree(t *testing.T) {
	tree := newTree(t, 2)
	Domain(tree.Edge()).Each(func(p math.Vec3i) { tree.Place(p, dirt) })
	before := ToMesh(tree, Domain(tree.Edge()))

	tree.Optimize()
	require.Equal(t, 1, tree.Len())
	after := ToMesh(tree, Domain(tree.Edge()))

	assert.Len(t, after.Vertices, 6*16)
	assert.Equal(t, before.Vertices, after.Vertices)
}

func TestToMeshAmbientOcclusion(t *testing.T) {
	// The +z face of (1,1,1) looks at (1,1,2). For +z the in-plane axes are
	// d1 = +y and d2 = +x.
	tests := []struct {
		name     string
		occluder math.Vec3i
		want     mgl32.Vec4
	}{
		{"side d1", cell(1, 2, 2), mgl32.Vec4{2.0 / 3, 1, 1, 2.0 / 3}},
		{"side -d2", cell(0, 1, 2), mgl32.Vec4{1, 1, 2.0 / 3, 2.0 / 3}},
		{"corner d1+d2", cell(2, 2, 2), mgl32.Vec4{2.0 / 3, 1, 1, 1}},
		{"corner -d1-d2", cell(0, 0, 2), mgl32.Vec4{1, 1, 2.0 / 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newTree(t, 2)
			tree.Place(cell(1, 1, 1), dirt)
			tree.Place(tt.occluder, dirt)

			m := ToMesh(tree, Region{Start: cell(1, 1, 1), End: cell(2, 2, 2)})

			require.Len(t, m.Vertices, 6)
			top := m.Vertices[0]
			require.Equal(t, mgl32.Vec4{0, 0, 1, 0}, top.Normal)
			for k := 0; k < 4; k++ {
				assert.InDelta(t, tt.want[k], top.Ambient[k], 1e-6, "corner %d", k)
			}
		})
	}
}

func TestToMeshTwoSidesFullyOcclude(t *testing.T) {
	tree := newTree(t, 2)
	tree.Place(cell(1, 1, 1), dirt)
	tree.Place(cell(1, 2, 2), dirt)
	tree.Place(cell(2, 1, 2), dirt)

	m := ToMesh(tree, Region{Start: cell(1, 1, 1), End: cell(2, 2, 2)})

	top := m.Vertices[0]
	require.Equal(t, mgl32.Vec4{0, 0, 1, 0}, top.Normal)
	assert.InDelta(t, 0, top.Ambient[0], 1e-6)
	assert.InDelta(t, 2.0/3, top.Ambient[1], 1e-6)
	assert.InDelta(t, 1, top.Ambient[2], 1e-6)
	assert.InDelta(t, 2.0/3, top.Ambient[3], 1e-6)
}

func TestToMeshDoesNotModifyTree(t *testing.T) {
	tree := newTree(t, 3)
	tree.Place(cell(1, 2, 3), grass)
	nodes := append([]octree.Node[voxel.Voxel](nil), tree.Nodes()...)

	ToMesh(tree, Domain(tree.Edge()))
	ToBitSet(tree, Domain(tree.Edge()))

	assert.Equal(t, nodes, tree.Nodes())
}

func TestBitIndex(t *testing.T) {
	assert.Equal(t, uint(0), BitIndex(nil))
	assert.Equal(t, uint(1), BitIndex([]uint8{0x01}))
	assert.Equal(t, uint(8), BitIndex([]uint8{0x80}))
	assert.Equal(t, uint(9), BitIndex([]uint8{0x01, 0x01}))
	assert.Equal(t, uint(9+7*8+2), BitIndex([]uint8{0x80, 0x04}))
}

func TestBitIndexUnique(t *testing.T) {
	seen := make(map[uint]bool)
	var walk func(path []uint8)
	walk = func(path []uint8) {
		idx := BitIndex(path)
		require.False(t, seen[idx], "duplicate index %d for %v", idx, path)
		seen[idx] = true
		if len(path) == 3 {
			return
		}
		for o := 0; o < 8; o++ {
			walk(append(append([]uint8(nil), path...), 1<<o))
		}
	}
	walk(nil)

	// 1 + 8 + 64 + 512 nodes fill [0, 585) exactly.
	assert.Len(t, seen, 585)
	for i := uint(0); i < 585; i++ {
		assert.True(t, seen[i])
	}
}

func TestToBitSetSingleVoxel(t *testing.T) {
	tree := newTree(t, 3)
	tree.Place(cell(5, 2, 7), dirt)

	bs := ToBitSet(tree, Domain(tree.Edge()))

	assert.Equal(t, 4, bs.Count())
	assert.True(t, bs.Test(0))
	path := tree.PositionHierarchy(5, 2, 7)
	for level := 1; level <= len(path); level++ {
		assert.True(t, bs.Test(BitIndex(path[:level])), "level %d", level)
	}
}

func TestToBitSetEmpty(t *testing.T) {
	tree := newTree(t, 3)

	bs := ToBitSet(tree, Domain(tree.Edge()))

	assert.Equal(t, 1, bs.Count())
	assert.True(t, bs.Test(0))
}

func TestToBitSetSharedAncestors(t *testing.T) {
	tree := newTree(t, 2)
	tree.Place(cell(0, 0, 0), dirt)
	tree.Place(cell(1, 0, 0), dirt)
	tree.Place(cell(3, 3, 3), dirt)

	bs := ToBitSet(tree, Domain(tree.Edge()))

	// root, two first-level octants, three leaves
	assert.Equal(t, 6, bs.Count())
}

func TestToBitSetMultipleRegions(t *testing.T) {
	tree := newTree(t, 2)
	tree.Place(cell(0, 0, 0), dirt)
	tree.Place(cell(3, 3, 3), dirt)

	one := ToBitSet(tree, Region{End: cell(1, 1, 1)})
	both := ToBitSet(tree, Region{End: cell(1, 1, 1)}, Region{Start: cell(3, 3, 3), End: cell(4, 4, 4)})

	assert.Equal(t, 3, one.Count())
	assert.Equal(t, 5, both.Count())
}

func TestToBitSetStopsAtCollapsedLeaf(t *testing.T) {
	tree := newTree(t, 2)
	Region{End: cell(2, 2, 2)}.Each(func(p math.Vec3i) { tree.Place(p, dirt) })
	tree.Place(cell(3, 3, 3), grass)
	tree.Optimize()

	bs := ToBitSet(tree, Domain(tree.Edge()))

	// root, the collapsed octant, the other octant and its one leaf
	assert.Equal(t, 4, bs.Count())
	assert.True(t, bs.Test(BitIndex([]uint8{0x01})))
	assert.False(t, bs.Test(BitIndex([]uint8{0x01, 0x01})))
}
