package xorb

import (
	"bytes"

	"github.com/xetproto/xetgo/pkg/compression"
	"github.com/xetproto/xetgo/pkg/xetconst"
	"github.com/xetproto/xetgo/pkg/xethash"
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// pendingChunk is one not-yet-serialized chunk held by a Builder.
type pendingChunk struct {
	data []byte
	tag  compression.Tag
}

// Builder accumulates chunks incrementally and serializes them into a
// single xorb once full (spec §4.E).
type Builder struct {
	chunks       []pendingChunk
	estimateSize int64 // sum(8 + len(data)), used for the 64 MiB full-check
}

// NewBuilder returns an empty xorb Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a chunk's raw bytes, compressed under tag, to the builder.
// It returns an error if doing so would push the estimated serialized
// size over xetconst.MaxXorbSize ("full", spec §4.E).
func (b *Builder) Add(data []byte, tag compression.Tag) error {
	estimate := int64(HeaderSize) + int64(len(data))
	if b.estimateSize+estimate > xetconst.MaxXorbSize {
		return xeterr.New(xeterr.CodeRangeTooLarge, "xorb would exceed max size of 64 MiB")
	}
	b.chunks = append(b.chunks, pendingChunk{data: append([]byte(nil), data...), tag: tag})
	b.estimateSize += estimate
	return nil
}

// Len returns the number of chunks currently buffered.
func (b *Builder) Len() int { return len(b.chunks) }

// Serialize compresses every buffered chunk and concatenates
// (header, payload) records in order, with no outer framing (spec §3).
func (b *Builder) Serialize() ([]byte, error) {
	var out bytes.Buffer
	for _, c := range b.chunks {
		compressed, usedTag, err := compression.Compress(c.data, c.tag)
		if err != nil {
			return nil, err
		}

		header := ChunkHeader{
			Version:          CurrentVersion,
			CompressedSize:   uint32(len(compressed)),
			CompressionType:  usedTag,
			UncompressedSize: uint32(len(c.data)),
		}
		encoded, err := header.Encode()
		if err != nil {
			return nil, err
		}
		out.Write(encoded[:])
		out.Write(compressed)
	}
	return out.Bytes(), nil
}

// XorbHash computes the xorb's content hash: the Merkle root over
// {DataHash(chunk.data), len(chunk.data)} leaves, one per buffered chunk
// in order (spec §4.E).
func (b *Builder) XorbHash() xethash.Hash {
	leaves := make([]xethash.MerkleNode, len(b.chunks))
	for i, c := range b.chunks {
		leaves[i] = xethash.MerkleNode{
			Hash: xethash.DataHash(c.data),
			Size: uint64(len(c.data)),
		}
	}
	return xethash.BuildMerkleTree(leaves)
}
