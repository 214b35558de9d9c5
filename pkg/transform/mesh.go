package transform

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexane/pkg/math"
	"github.com/Faultbox/hexane/pkg/mesh"
	"github.com/Faultbox/hexane/pkg/octree"
	"github.com/Faultbox/hexane/pkg/voxel"
)

// Face directions in emission order.
var faceNormals = [6]math.Vec3i{
	{X: 0, Y: 0, Z: 1},
	{X: 0, Y: 0, Z: -1},
	{X: 1, Y: 0, Z: 0},
	{X: -1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: -1, Z: 0},
}

// ToMesh extracts the visible surface of the voxels inside regions.
//
// Every exposed side of every stored voxel becomes one face vertex: the
// face is emitted when the neighbouring cell holds no voxel or lies outside
// the tree. Adjacent faces are not merged. The index buffer is left empty;
// see mesh.Expand for the triangulation.
func ToMesh(tree *octree.SparseOctree[voxel.Voxel], regions ...Region) *mesh.Mesh {
	s := sampler{tree: tree, edge: tree.Edge()}
	var vertices []mesh.Vertex

	for _, r := range regions {
		r.Clamp(s.edge).Each(func(p math.Vec3i) {
			v, ok := tree.Query(p)
			if !ok {
				return
			}

			position := p.Point()
			color := v.Albedo(position)

			for _, n := range faceNormals {
				if s.solid(p.Add(n)) {
					continue
				}
				vertices = append(vertices, mesh.Vertex{
					Position: position,
					Normal:   n.Direction(),
					Color:    color,
					Ambient:  s.ambient(p, n),
				})
			}
		})
	}

	return &mesh.Mesh{Vertices: vertices}
}

// sampler answers occupancy questions against the tree.
type sampler struct {
	tree *octree.SparseOctree[voxel.Voxel]
	edge int
}

// solid reports whether p is inside the tree and holds a voxel.
func (s sampler) solid(p math.Vec3i) bool {
	if !p.Within(s.edge) {
		return false
	}
	return s.tree.HasData(s.tree.PositionHierarchy(p.X, p.Y, p.Z))
}

func (s sampler) occupancy(p math.Vec3i) float32 {
	if s.solid(p) {
		return 1
	}
	return 0
}

// ambient samples the eight cells around the face's outer neighbour in the
// face plane and returns the light factor of the four face corners.
// Corner k lies between sides k and k+1.
func (s sampler) ambient(p, n math.Vec3i) mgl32.Vec4 {
	q := p.Add(n)
	d1 := math.Vec3i{X: n.Y, Y: n.Z, Z: n.X}.Abs()
	d2 := math.Vec3i{X: n.Z, Y: n.X, Z: n.Y}.Abs()

	side := [4]float32{
		s.occupancy(q.Add(d1)),
		s.occupancy(q.Add(d2)),
		s.occupancy(q.Sub(d1)),
		s.occupancy(q.Sub(d2)),
	}
	corner := [4]float32{
		s.occupancy(q.Add(d1).Add(d2)),
		s.occupancy(q.Sub(d1).Add(d2)),
		s.occupancy(q.Sub(d1).Sub(d2)),
		s.occupancy(q.Add(d1).Sub(d2)),
	}

	var light mgl32.Vec4
	for k := range light {
		light[k] = 1 - vertexOcclusion(side[k], side[(k+1)%4], corner[k])
	}
	return light
}

// vertexOcclusion combines two side samples and the corner between them.
// Two occupied sides fully occlude the corner regardless of the corner
// sample.
func vertexOcclusion(side1, side2, corner float32) float32 {
	return (side1 + side2 + max(corner, side1*side2)) / 3
}
