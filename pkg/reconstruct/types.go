// Package reconstruct implements the reconstruction engine of spec §4.G:
// resolving a file hash (optionally scoped to a byte range) to an ordered
// sequence of xorb chunk-range terms, fetching each term's bytes, and
// assembling them into the requested output, grounded on the teacher's
// pkg/content fetcher/assembly flow and generalized here to the term/
// fetch-info resolution model of §6.
package reconstruct

import (
	"context"

	"github.com/xetproto/xetgo/pkg/xethash"
)

// Range is a half-open chunk-index range [Start, End) within a xorb,
// matching the argument convention of xorb.ExtractChunkRange.
type Range struct {
	Start uint32
	End   uint32
}

// ByteRange is an inclusive file-byte range, the form the resolver
// interface expects and returns (spec §6: "range: [start, end-1]").
type ByteRange struct {
	Start uint64
	End   uint64 // inclusive
}

// Term is a single (xorb, chunk_range) slice contributing a run of bytes
// to a reconstructed file (spec GLOSSARY).
type Term struct {
	XorbHash       xethash.Hash
	UnpackedLength uint32
	ChunkRange     Range
}

// FetchInfo is a pre-signed URL plus an HTTP byte range that, once
// fetched, yields xorb bytes known to cover ChunkRange (spec GLOSSARY).
type FetchInfo struct {
	ChunkRange    Range
	URL           string
	URLRangeStart uint64
	URLRangeEnd   uint64 // inclusive, per HTTP Range semantics
}

// ReconstructionInfo is the resolver's response: the term sequence plus,
// per xorb (keyed by its API-hex hash), the fetch-info candidates that
// may cover each term's chunk range (spec §6).
type ReconstructionInfo struct {
	OffsetIntoFirstRange uint64
	Terms                []Term
	FetchInfo            map[string][]FetchInfo
}

// Resolver is the dynamic-dispatch site named in §9: given a file hash and
// an optional inclusive byte range, it returns the term/fetch-info plan
// needed to reconstruct those bytes. A nil byteRange requests the whole
// file.
type Resolver interface {
	Resolve(ctx context.Context, fileHash xethash.Hash, byteRange *ByteRange) (*ReconstructionInfo, error)
}

// RangeFetcher retrieves a byte range of a remote xorb object addressed by
// a pre-signed URL (spec §6's "xorb byte-range GET").
type RangeFetcher interface {
	FetchRange(ctx context.Context, url string, startInclusive, endInclusive uint64) ([]byte, error)
}
