// Package compression implements the four chunk-payload codecs of spec
// §4.D: identity, LZ4 frame, byte-grouped-4 LZ4, and full-bitslice LZ4.
// All three non-identity codecs build on github.com/pierrec/lz4/v4's frame
// Writer/Reader, grounded on the corpus's own LZ4 usage (the
// ethereum-go-ethereum vendor copy and the foxglove/pickledgator MCAP
// readers retrieved alongside the teacher).
package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// Tag identifies a chunk's compression codec (spec §3's XorbChunkHeader
// byte 4).
type Tag byte

const (
	TagNone             Tag = 0
	TagLZ4              Tag = 1
	TagByteGrouping4LZ4 Tag = 2
	TagFullBitsliceLZ4  Tag = 3
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagLZ4:
		return "lz4"
	case TagByteGrouping4LZ4:
		return "byte-grouping-4-lz4"
	case TagFullBitsliceLZ4:
		return "full-bitslice-lz4"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// Compress compresses data under the requested tag, falling back to
// TagNone with a verbatim copy whenever the codec fails to reduce size
// relative to the original length (spec §4.D / §8's "codec fallback"
// invariant).
func Compress(data []byte, tag Tag) (out []byte, used Tag, err error) {
	var compressed []byte
	switch tag {
	case TagNone:
		compressed = data
	case TagLZ4:
		compressed, err = lz4FrameCompress(data)
	case TagByteGrouping4LZ4:
		compressed, err = lz4FrameCompress(applyByteGrouping(data))
	case TagFullBitsliceLZ4:
		compressed, err = lz4FrameCompress(applyFullBitslice(data))
	default:
		return nil, 0, xeterr.New(xeterr.CodeUnknownCompression, fmt.Sprintf("unknown compression tag %d", tag))
	}
	if err != nil {
		return nil, 0, xeterr.Wrap(xeterr.CodeCompressionFailed, "compression failed", err)
	}

	if tag != TagNone && len(compressed) >= len(data) {
		return append([]byte(nil), data...), TagNone, nil
	}
	return compressed, tag, nil
}

// Decompress reverses Compress: it decompresses data (tagged tag) into a
// buffer of exactly uncompressedSize bytes, reversing any pre-transform
// the codec applied.
func Decompress(data []byte, tag Tag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case TagNone:
		if len(data) != uncompressedSize {
			return nil, xeterr.New(xeterr.CodeSizeMismatch,
				fmt.Sprintf("none-codec payload length %d != uncompressed size %d", len(data), uncompressedSize))
		}
		return append([]byte(nil), data...), nil

	case TagLZ4:
		out, err := lz4FrameDecompress(data, uncompressedSize)
		if err != nil {
			return nil, xeterr.Wrap(xeterr.CodeDecompressionFailed, "lz4 decompression failed", err)
		}
		return out, nil

	case TagByteGrouping4LZ4:
		grouped, err := lz4FrameDecompress(data, uncompressedSize)
		if err != nil {
			return nil, xeterr.Wrap(xeterr.CodeDecompressionFailed, "byte-grouping lz4 decompression failed", err)
		}
		return reverseByteGrouping(grouped), nil

	case TagFullBitsliceLZ4:
		bitsliced, err := lz4FrameDecompress(data, uncompressedSize)
		if err != nil {
			return nil, xeterr.Wrap(xeterr.CodeDecompressionFailed, "full-bitslice lz4 decompression failed", err)
		}
		return reverseFullBitslice(bitsliced), nil

	default:
		return nil, xeterr.New(xeterr.CodeUnknownCompression, fmt.Sprintf("unknown compression tag %d", tag))
	}
}

func lz4FrameCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lz4FrameDecompress(data []byte, uncompressedSize int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	if n != uncompressedSize {
		return nil, fmt.Errorf("lz4 frame decompressed to %d bytes, want %d", n, uncompressedSize)
	}
	return out, nil
}
