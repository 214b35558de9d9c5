package mesh

import "github.com/go-gl/mathgl/mgl32"

// cornerSigns places quad corner k at center + s1*d1/2 + s2*d2/2. Corner k
// sits between ambient sides k and k+1, matching Vertex.Ambient[k].
var cornerSigns = [4][2]float32{
	{1, 1},
	{-1, 1},
	{-1, -1},
	{1, -1},
}

// Expand triangulates a face mesh: every face vertex becomes four corner
// vertices on the face of its unit cell plus six indices.
//
// Triangles wind counter-clockwise when seen from outside the voxel. The
// quad is split along the 0-2 diagonal, or along 1-3 when those corners
// are darker (a1+a3 < a0+a2), so occlusion gradients interpolate without
// the usual anisotropy. Each corner vertex carries its own light factor in
// all four Ambient components.
func Expand(faces *Mesh) *Mesh {
	out := &Mesh{
		Vertices: make([]Vertex, 0, len(faces.Vertices)*4),
		Indices:  make([]uint32, 0, len(faces.Vertices)*6),
	}

	for _, f := range faces.Vertices {
		n := f.Normal.Vec3()
		d1 := mgl32.Vec3{absf(n[1]), absf(n[2]), absf(n[0])}
		d2 := mgl32.Vec3{absf(n[2]), absf(n[0]), absf(n[1])}
		center := f.Position.Vec3().Add(mgl32.Vec3{0.5, 0.5, 0.5}).Add(n.Mul(0.5))

		base := uint32(len(out.Vertices))
		for k, s := range cornerSigns {
			p := center.Add(d1.Mul(s[0] * 0.5)).Add(d2.Mul(s[1] * 0.5))
			a := f.Ambient[k]
			out.Vertices = append(out.Vertices, Vertex{
				Position: p.Vec4(1),
				Normal:   f.Normal,
				Color:    f.Color,
				Ambient:  mgl32.Vec4{a, a, a, a},
			})
		}

		tris := [6]uint32{0, 1, 2, 0, 2, 3}
		if f.Ambient[1]+f.Ambient[3] < f.Ambient[0]+f.Ambient[2] {
			tris = [6]uint32{1, 2, 3, 1, 3, 0}
		}
		if d1.Cross(d2).Dot(n) < 0 {
			tris[1], tris[2] = tris[2], tris[1]
			tris[4], tris[5] = tris[5], tris[4]
		}
		for _, i := range tris {
			out.Indices = append(out.Indices, base+i)
		}
	}

	return out
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
