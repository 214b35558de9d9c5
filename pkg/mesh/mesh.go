// Package mesh holds renderable voxel surface data.
package mesh

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one emitted voxel face, or one quad corner after Expand.
type Vertex struct {
	Position mgl32.Vec4 // cell origin (w = 1)
	Normal   mgl32.Vec4 // axis-aligned face normal (w = 0)
	Color    mgl32.Vec4 // RGBA albedo
	Ambient  mgl32.Vec4 // per-corner light factor, 1 = fully lit
}

// Mesh holds mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// New returns a mesh that owns copies of vertices and indices.
func New(vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Vertices: append([]Vertex(nil), vertices...),
		Indices:  append([]uint32(nil), indices...),
	}
}

// Indexed returns true if the mesh carries an index buffer.
func (m *Mesh) Indexed() bool {
	return len(m.Indices) > 0
}
