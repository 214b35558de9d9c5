// Package snapshot reads and writes the binary files voxtool produces:
// octree snapshots (HXOT), bit set blobs (HXBS) and mesh blobs (HXMS).
//
// Every file starts with an 8-byte header
//
//	magic[4] version u8 codec u8 param u8 reserved u8
//
// followed by kind-specific counts and a single payload block
//
//	rawSize u32 storedSize u32 data[storedSize or rawSize]
//
// A storedSize of 0 means the payload is kept uncompressed, either because
// the codec is none or because compression did not pay off. All integers
// are little-endian.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Version is the current format version of all three file kinds.
const Version = 1

// File magics.
const (
	MagicOctree = "HXOT"
	MagicBitSet = "HXBS"
	MagicMesh   = "HXMS"
)

// Snapshot errors.
var (
	ErrInvalidMagic       = errors.New("snapshot: invalid magic")
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	ErrUnknownCodec       = errors.New("snapshot: unknown codec")
	ErrTruncated          = errors.New("snapshot: truncated data")
	ErrTooLarge           = errors.New("snapshot: payload exceeds 4 GiB")
)

const (
	headerSize      = 8
	blockHeaderSize = 8
)

// Header is the common prefix of every snapshot file.
type Header struct {
	Magic   string
	Version uint8
	Codec   Codec
	Param   uint8 // octree depth for HXOT, zero otherwise
}

// String returns a one-line description of the header.
func (h Header) String() string {
	return fmt.Sprintf("%s v%d codec=%s param=%d", h.Magic, h.Version, h.Codec, h.Param)
}

// ParseHeader decodes the common header and checks version and codec.
// The magic is returned as found; callers compare it with the kind they
// expect.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: header", ErrTruncated)
	}

	h := Header{
		Magic:   string(data[0:4]),
		Version: data[4],
		Codec:   Codec(data[5]),
		Param:   data[6],
	}

	switch h.Magic {
	case MagicOctree, MagicBitSet, MagicMesh:
	default:
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if !h.Codec.valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(h.Codec))
	}

	return h, nil
}

// expectHeader parses the header and requires the given magic.
func expectHeader(data []byte, magic string) (Header, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, err
	}
	if h.Magic != magic {
		return Header{}, fmt.Errorf("%w: expected %q, got %q", ErrInvalidMagic, magic, h.Magic)
	}
	return h, nil
}

func appendHeader(buf []byte, magic string, codec Codec, param uint8) []byte {
	buf = append(buf, magic...)
	return append(buf, Version, uint8(codec), param, 0)
}

// appendBlock compresses raw with codec and appends the block to buf.
func appendBlock(buf, raw []byte, codec Codec, level int) ([]byte, error) {
	if uint64(len(raw)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}

	stored, err := compress(codec, level, raw)
	if err != nil {
		return nil, err
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(raw)))
	if stored == nil {
		buf = binary.LittleEndian.AppendUint32(buf, 0)
		return append(buf, raw...), nil
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(stored)))
	return append(buf, stored...), nil
}

// readBlock decodes the block at the start of data and returns its raw
// contents. want is the raw size implied by the counts before the block; a
// block announcing any other size is rejected before it is inflated.
func readBlock(data []byte, codec Codec, want uint64) ([]byte, error) {
	if len(data) < blockHeaderSize {
		return nil, fmt.Errorf("%w: block header", ErrTruncated)
	}

	rawSize := binary.LittleEndian.Uint32(data[0:])
	storedSize := binary.LittleEndian.Uint32(data[4:])
	body := data[blockHeaderSize:]

	if uint64(rawSize) != want {
		return nil, fmt.Errorf("%w: block holds %d bytes, counts need %d", ErrTruncated, rawSize, want)
	}

	if storedSize == 0 {
		if uint64(len(body)) < uint64(rawSize) {
			return nil, fmt.Errorf("%w: need %d payload bytes, have %d", ErrTruncated, rawSize, len(body))
		}
		return body[:rawSize], nil
	}

	if uint64(len(body)) < uint64(storedSize) {
		return nil, fmt.Errorf("%w: need %d compressed bytes, have %d", ErrTruncated, storedSize, len(body))
	}
	return decompress(codec, body[:storedSize], int(rawSize))
}
