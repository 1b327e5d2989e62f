package xorb

import (
	"fmt"

	"github.com/xetproto/xetgo/pkg/compression"
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// Chunk is a single decompressed chunk returned by a Reader, carrying its
// sequential index within the xorb (spec §3).
type Chunk struct {
	Index uint32
	Data  []byte
}

// Reader is a positional cursor over a xorb's raw bytes (spec §4.E).
type Reader struct {
	data []byte
	pos  int
	idx  uint32
}

// NewReader wraps raw xorb bytes for sequential or random-access reading.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NextChunk returns the next decompressed chunk, or ok=false at EOF.
func (r *Reader) NextChunk() (Chunk, bool, error) {
	if r.pos >= len(r.data) {
		return Chunk{}, false, nil
	}

	remaining := len(r.data) - r.pos
	if remaining < HeaderSize {
		return Chunk{}, false, xeterr.New(xeterr.CodeTruncatedXorb, "truncated xorb chunk header")
	}

	header, err := DecodeChunkHeader(r.data[r.pos : r.pos+HeaderSize])
	if err != nil {
		return Chunk{}, false, err
	}

	payloadStart := r.pos + HeaderSize
	payloadEnd := payloadStart + int(header.CompressedSize)
	if payloadEnd > len(r.data) {
		return Chunk{}, false, xeterr.New(xeterr.CodeTruncatedXorb, "truncated xorb chunk payload")
	}

	decoded, err := compression.Decompress(r.data[payloadStart:payloadEnd], header.CompressionType, int(header.UncompressedSize))
	if err != nil {
		return Chunk{}, false, err
	}

	chunk := Chunk{Index: r.idx, Data: decoded}
	r.pos = payloadEnd
	r.idx++
	return chunk, true, nil
}

// GetChunk linear-scans from the start of the xorb and returns the chunk
// at index i (spec §4.E).
func GetChunk(data []byte, i uint32) (Chunk, error) {
	r := NewReader(data)
	for {
		chunk, ok, err := r.NextChunk()
		if err != nil {
			return Chunk{}, err
		}
		if !ok {
			return Chunk{}, xeterr.New(xeterr.CodeChunkNotFound, fmt.Sprintf("chunk %d not found", i))
		}
		if chunk.Index == i {
			return chunk, nil
		}
	}
}

// ExtractChunkRange concatenates the decompressed bytes of chunks whose
// index lies in the half-open range [start, end), scanning from the
// beginning of the xorb (spec §4.E). It returns RangeOutOfBounds if fewer
// than end chunks exist.
func ExtractChunkRange(data []byte, start, end uint32) ([]byte, error) {
	if start >= end {
		return nil, xeterr.New(xeterr.CodeInvalidRange, fmt.Sprintf("invalid chunk range [%d,%d)", start, end))
	}

	r := NewReader(data)
	var out []byte
	var seen uint32
	for seen < end {
		chunk, ok, err := r.NextChunk()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, xeterr.New(xeterr.CodeRangeOutOfBounds,
				fmt.Sprintf("xorb has only %d chunks, requested range end %d", seen, end))
		}
		if chunk.Index >= start {
			out = append(out, chunk.Data...)
		}
		seen++
	}
	return out, nil
}
