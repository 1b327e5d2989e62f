// Package chunker implements the Gearhash-based content-defined chunker
// (spec §4.B), generalized from the teacher's fixed-size ChunkData
// (pkg/content/chunker.go) to a rolling-hash splitter with min/max bounds.
package chunker

import "github.com/xetproto/xetgo/pkg/xetconst"

// Boundary is a half-open byte range [Start, End) within the input stream
// (spec §3's ChunkBoundary).
type Boundary struct {
	Start int
	End   int
}

// Chunker holds the rolling-hash state for a single streaming pass over an
// input buffer (spec §4.B: hash, position, chunkStart, firstChunk).
type Chunker struct {
	hash       uint64
	position   int
	chunkStart int
	firstChunk bool
}

// New returns a Chunker ready to process input starting at position 0.
func New() *Chunker {
	return &Chunker{firstChunk: true}
}

// cutPointSkip is the byte count, within the first chunk only, below which
// bytes are consumed without updating the rolling hash (spec §4.B).
const cutPointSkip = xetconst.MinChunkSize - 65

// Split runs the chunker over the full input buffer and returns every
// boundary in stream order, including a final boundary for any trailing
// bytes (spec §4.B end-of-stream rule). It is equivalent to feeding the
// entire buffer through a fresh Chunker and draining boundaries.
func Split(data []byte) []Boundary {
	c := New()
	var boundaries []Boundary
	for {
		b, ok := c.Next(data)
		if !ok {
			break
		}
		boundaries = append(boundaries, b)
	}
	if tail, ok := c.Final(data); ok {
		boundaries = append(boundaries, tail)
	}
	return boundaries
}

// Next advances the chunker from its current position over data and
// returns the next boundary found, or ok=false if the stream is exhausted
// without producing one (the caller should then call Final).
func (c *Chunker) Next(data []byte) (Boundary, bool) {
	table := &xetconst.GearTable

	for c.position < len(data) {
		chunkSize := c.position - c.chunkStart

		// Cut-point skip: on the very first chunk only, consume bytes
		// without updating the hash until chunkSize reaches the skip
		// threshold (spec §4.B's "warm-up").
		if c.firstChunk && chunkSize < cutPointSkip {
			c.position++
			continue
		}

		b := data[c.position]
		c.hash = c.hash + (c.hash + table[b])
		c.position++
		chunkSize = c.position - c.chunkStart

		var boundary bool
		switch {
		case chunkSize >= xetconst.MaxChunkSize:
			boundary = true
		case chunkSize < xetconst.MinChunkSize:
			boundary = false
		default:
			boundary = (c.hash & 0xFFFF_0000_0000_0000) == 0
		}

		if boundary {
			result := Boundary{Start: c.chunkStart, End: c.position}
			c.hash = 0
			c.chunkStart = c.position
			c.firstChunk = false
			return result, true
		}
	}

	return Boundary{}, false
}

// Final emits the trailing boundary for any bytes consumed since the last
// emitted boundary, once the input is exhausted (spec §4.B end-of-stream
// rule). ok is false if there is no trailing data.
func (c *Chunker) Final(data []byte) (Boundary, bool) {
	if c.position > c.chunkStart {
		b := Boundary{Start: c.chunkStart, End: c.position}
		c.chunkStart = c.position
		return b, true
	}
	return Boundary{}, false
}
