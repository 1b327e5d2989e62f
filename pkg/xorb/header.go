// Package xorb implements the xorb container format of spec §3/§4.E: an
// unframed concatenation of (8-byte chunk header, compressed payload)
// records, built and parsed the way the teacher's pkg/content/chunker.go
// builds and reconstructs fixed-size chunk sequences, generalized here to
// a compressed, self-describing container.
package xorb

import (
	"fmt"

	"github.com/xetproto/xetgo/pkg/compression"
	"github.com/xetproto/xetgo/pkg/xetconst"
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// HeaderSize is the fixed byte length of a XorbChunkHeader (spec §3).
const HeaderSize = 8

// CurrentVersion is the only header version this implementation emits or
// accepts.
const CurrentVersion = 0

// ChunkHeader is the fixed 8-byte per-chunk record prefix (spec §3).
type ChunkHeader struct {
	Version          byte
	CompressedSize   uint32 // fits in 24 bits
	CompressionType  compression.Tag
	UncompressedSize uint32 // fits in 24 bits
}

// Encode serializes h into its 8-byte wire form.
func (h ChunkHeader) Encode() ([HeaderSize]byte, error) {
	var buf [HeaderSize]byte
	if h.CompressedSize > xetconst.MaxU24 || h.UncompressedSize > xetconst.MaxU24 {
		return buf, xeterr.New(xeterr.CodeSizeExceedsU24, "chunk size exceeds 24-bit field")
	}
	buf[0] = h.Version
	putU24(buf[1:4], h.CompressedSize)
	buf[4] = byte(h.CompressionType)
	putU24(buf[5:8], h.UncompressedSize)
	return buf, nil
}

// DecodeChunkHeader parses an 8-byte header, validating version, size
// bounds, and the uncompressed==0-implies-compressed==0 rule (spec §4.E).
func DecodeChunkHeader(buf []byte) (ChunkHeader, error) {
	if len(buf) < HeaderSize {
		return ChunkHeader{}, xeterr.New(xeterr.CodeTruncatedXorb, "truncated chunk header")
	}

	h := ChunkHeader{
		Version:          buf[0],
		CompressedSize:   getU24(buf[1:4]),
		CompressionType:  compression.Tag(buf[4]),
		UncompressedSize: getU24(buf[5:8]),
	}

	if h.Version != CurrentVersion {
		return ChunkHeader{}, xeterr.New(xeterr.CodeUnsupportedVersion,
			fmt.Sprintf("unsupported xorb chunk header version %d", h.Version))
	}
	if h.CompressedSize > xetconst.MaxU24 || h.UncompressedSize > xetconst.MaxU24 {
		return ChunkHeader{}, xeterr.New(xeterr.CodeInvalidChunkSize, "chunk size field exceeds 24 bits")
	}
	if h.UncompressedSize == 0 && h.CompressedSize > 0 {
		return ChunkHeader{}, xeterr.New(xeterr.CodeInvalidChunkSize, "zero uncompressed size with non-zero compressed size")
	}
	switch h.CompressionType {
	case compression.TagNone, compression.TagLZ4, compression.TagByteGrouping4LZ4, compression.TagFullBitsliceLZ4:
	default:
		return ChunkHeader{}, xeterr.New(xeterr.CodeUnknownCompression,
			fmt.Sprintf("invalid compression type %d", h.CompressionType))
	}

	return h, nil
}

func putU24(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
}

func getU24(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
}
