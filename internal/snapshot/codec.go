package snapshot

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec is the payload compression algorithm.
type Codec uint8

// Codec values as stored in the header.
const (
	CodecNone Codec = 0
	CodecZstd Codec = 1
	CodecLZ4  Codec = 2
)

// ParseCodec maps a config name (none, zstd, lz4) to a Codec.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none", "":
		return CodecNone, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return CodecNone, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// String returns the config name of the codec.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

func (c Codec) valid() bool {
	return c <= CodecLZ4
}

const (
	// lz4MaxRatio bounds the expansion of an lz4 block: each 255-valued
	// length byte adds at most 255 output bytes.
	lz4MaxRatio = 255

	zstdReserveRatio = 32
)

// zstd encoders are pooled per level, decoders share one pool.
var (
	zstdEncoderPools [zstd.SpeedBestCompression + 1]sync.Pool
	zstdDecoderPool  sync.Pool
)

func getZstdEncoder(level zstd.EncoderLevel) (*zstd.Encoder, error) {
	if v := zstdEncoderPools[level].Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
}

func putZstdEncoder(level zstd.EncoderLevel, enc *zstd.Encoder) {
	zstdEncoderPools[level].Put(enc)
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compress returns the compressed form of data, or nil when data should be
// stored as is. level only applies to zstd; 0 selects the default.
func compress(c Codec, level int, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var out []byte
	switch c {
	case CodecNone:
		return nil, nil

	case CodecZstd:
		encLevel := zstd.SpeedDefault
		if level > 0 {
			encLevel = zstd.EncoderLevelFromZstd(level)
		}
		enc, err := getZstdEncoder(encLevel)
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		out = enc.EncodeAll(data, nil)
		putZstdEncoder(encLevel, enc)

	case CodecLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			return nil, nil
		}
		out = buf[:n]

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}

	if len(out) >= len(data) {
		return nil, nil
	}
	return out, nil
}

// decompress inflates data, which must decode to exactly size bytes. Callers
// check size against the counts they expect before calling.
func decompress(c Codec, data []byte, size int) ([]byte, error) {
	switch c {
	case CodecZstd:
		var fh zstd.Header
		if err := fh.Decode(data); err != nil {
			return nil, fmt.Errorf("zstd frame header: %w", err)
		}
		if fh.HasFCS && fh.FrameContentSize != uint64(size) {
			return nil, errSizeMismatch(size, int(min(fh.FrameContentSize, uint64(math.MaxInt32))))
		}

		dec, err := getZstdDecoder()
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer putZstdDecoder(dec)

		// The buffer grows with the frame; only a bounded guess is reserved.
		decoded, err := dec.DecodeAll(data, make([]byte, 0, min(size, zstdReserveRatio*len(data))))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(decoded) != size {
			return nil, errSizeMismatch(size, len(decoded))
		}
		return decoded, nil

	case CodecLZ4:
		if size > lz4MaxRatio*(len(data)+1) {
			return nil, fmt.Errorf("%w: %d lz4 bytes cannot inflate to %d", ErrTruncated, len(data), size)
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, errSizeMismatch(size, n)
		}
		return out, nil

	case CodecNone:
		return nil, errors.New("snapshot: compressed block under codec none")

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, uint8(c))
	}
}

func errSizeMismatch(want, got int) error {
	return fmt.Errorf("%w: decompressed %d bytes, expected %d", ErrTruncated, got, want)
}
