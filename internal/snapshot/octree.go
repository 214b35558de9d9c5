package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/hexane/pkg/octree"
	"github.com/Faultbox/hexane/pkg/voxel"
)

// nodeRecordSize is child u32, valid u8, flags u8, morton u64, id u32.
const nodeRecordSize = 18

const flagHasData = 1 << 0

// Tree is the octree type stored in HXOT snapshots.
type Tree = octree.SparseOctree[voxel.Voxel]

// EncodeOctree serializes the node arena of tree. Tombstones are written
// as is; call Optimize first for a compact file.
func EncodeOctree(tree *Tree, codec Codec, level int) ([]byte, error) {
	nodes := tree.Nodes()

	raw := make([]byte, 0, len(nodes)*nodeRecordSize)
	for _, n := range nodes {
		v, ok := n.Data()
		var flags uint8
		if ok {
			flags |= flagHasData
		}
		raw = binary.LittleEndian.AppendUint32(raw, n.Child())
		raw = append(raw, n.Valid(), flags)
		raw = binary.LittleEndian.AppendUint64(raw, n.Morton())
		raw = binary.LittleEndian.AppendUint32(raw, uint32(v.ID))
	}

	buf := appendHeader(make([]byte, 0, headerSize+4+blockHeaderSize+len(raw)), MagicOctree, codec, uint8(tree.Size()))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(nodes)))
	return appendBlock(buf, raw, codec, level)
}

// WriteOctree writes an HXOT snapshot of tree to w.
func WriteOctree(w io.Writer, tree *Tree, codec Codec, level int) error {
	data, err := EncodeOctree(tree, codec, level)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteOctreeFile writes an HXOT snapshot of tree to path.
func WriteOctreeFile(path string, tree *Tree, codec Codec, level int) error {
	data, err := EncodeOctree(tree, codec, level)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseOctree decodes an HXOT snapshot and rebuilds the tree. The node
// arena is validated by octree.Restore.
func ParseOctree(data []byte, opts ...octree.Option) (*Tree, error) {
	h, err := expectHeader(data, MagicOctree)
	if err != nil {
		return nil, err
	}

	rest := data[headerSize:]
	if len(rest) < 4 {
		return nil, fmt.Errorf("%w: node count", ErrTruncated)
	}
	count := binary.LittleEndian.Uint32(rest)

	raw, err := readBlock(rest[4:], h.Codec, uint64(count)*nodeRecordSize)
	if err != nil {
		return nil, fmt.Errorf("%d nodes: %w", count, err)
	}

	nodes := make([]octree.Node[voxel.Voxel], count)
	for i := range nodes {
		rec := raw[i*nodeRecordSize:]
		id := voxel.Id(binary.LittleEndian.Uint32(rec[14:]))
		if !id.Valid() {
			return nil, fmt.Errorf("%w: node %d has unknown voxel id %d", octree.ErrCorrupt, i, uint32(id))
		}
		nodes[i] = octree.MakeNode(
			binary.LittleEndian.Uint32(rec[0:]),
			rec[4],
			binary.LittleEndian.Uint64(rec[6:]),
			voxel.Voxel{ID: id},
			rec[5]&flagHasData != 0,
		)
	}

	return octree.Restore(int(h.Param), nodes, opts...)
}

// ReadOctree reads an HXOT snapshot from r.
func ReadOctree(r io.Reader, opts ...octree.Option) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseOctree(data, opts...)
}

// ParseOctreeFile reads an HXOT snapshot from disk.
func ParseOctreeFile(path string, opts ...octree.Option) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOctree(data, opts...)
}
