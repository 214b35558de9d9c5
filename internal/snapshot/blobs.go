package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexane/pkg/bitset"
	"github.com/Faultbox/hexane/pkg/mesh"
)

// floatsPerVertex is Position, Normal, Color, Ambient as four Vec4s.
const floatsPerVertex = 16

// EncodeBitSet serializes the word array of bs (HXBS). Counts: word count
// u32.
func EncodeBitSet(bs *bitset.BitSet, codec Codec, level int) ([]byte, error) {
	words := bs.Words()

	raw := make([]byte, 0, len(words)*4)
	for _, w := range words {
		raw = binary.LittleEndian.AppendUint32(raw, w)
	}

	buf := appendHeader(nil, MagicBitSet, codec, 0)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(words)))
	return appendBlock(buf, raw, codec, level)
}

// ParseBitSet decodes an HXBS blob.
func ParseBitSet(data []byte) (*bitset.BitSet, error) {
	h, err := expectHeader(data, MagicBitSet)
	if err != nil {
		return nil, err
	}

	rest := data[headerSize:]
	if len(rest) < 4 {
		return nil, fmt.Errorf("%w: word count", ErrTruncated)
	}
	count := binary.LittleEndian.Uint32(rest)

	raw, err := readBlock(rest[4:], h.Codec, uint64(count)*4)
	if err != nil {
		return nil, fmt.Errorf("%d words: %w", count, err)
	}

	words := make([]uint32, count)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return bitset.FromWords(words), nil
}

// EncodeMesh serializes m (HXMS). Counts: vertex count u32, index count
// u32. The payload is the vertex stream of 16 float32 per vertex followed
// by the uint32 indices.
func EncodeMesh(m *mesh.Mesh, codec Codec, level int) ([]byte, error) {
	raw := make([]byte, 0, len(m.Vertices)*floatsPerVertex*4+len(m.Indices)*4)
	for _, v := range m.Vertices {
		for _, vec := range [4]mgl32.Vec4{v.Position, v.Normal, v.Color, v.Ambient} {
			for _, f := range vec {
				raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(f))
			}
		}
	}
	for _, i := range m.Indices {
		raw = binary.LittleEndian.AppendUint32(raw, i)
	}

	buf := appendHeader(nil, MagicMesh, codec, 0)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Vertices)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Indices)))
	return appendBlock(buf, raw, codec, level)
}

// ParseMesh decodes an HXMS blob.
func ParseMesh(data []byte) (*mesh.Mesh, error) {
	h, err := expectHeader(data, MagicMesh)
	if err != nil {
		return nil, err
	}

	rest := data[headerSize:]
	if len(rest) < 8 {
		return nil, fmt.Errorf("%w: mesh counts", ErrTruncated)
	}
	vertexCount := binary.LittleEndian.Uint32(rest[0:])
	indexCount := binary.LittleEndian.Uint32(rest[4:])

	want := uint64(vertexCount)*floatsPerVertex*4 + uint64(indexCount)*4
	raw, err := readBlock(rest[8:], h.Codec, want)
	if err != nil {
		return nil, fmt.Errorf("%d vertices, %d indices: %w", vertexCount, indexCount, err)
	}

	m := &mesh.Mesh{
		Vertices: make([]mesh.Vertex, vertexCount),
		Indices:  make([]uint32, indexCount),
	}

	off := 0
	readVec := func() mgl32.Vec4 {
		var v mgl32.Vec4
		for k := range v {
			v[k] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
			off += 4
		}
		return v
	}
	for i := range m.Vertices {
		m.Vertices[i] = mesh.Vertex{
			Position: readVec(),
			Normal:   readVec(),
			Color:    readVec(),
			Ambient:  readVec(),
		}
	}
	for i := range m.Indices {
		m.Indices[i] = binary.LittleEndian.Uint32(raw[off:])
		off += 4
	}

	return m, nil
}

// WriteBitSetFile writes an HXBS blob to path.
func WriteBitSetFile(path string, bs *bitset.BitSet, codec Codec, level int) error {
	data, err := EncodeBitSet(bs, codec, level)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteMeshFile writes an HXMS blob to path.
func WriteMeshFile(path string, m *mesh.Mesh, codec Codec, level int) error {
	data, err := EncodeMesh(m, codec, level)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
