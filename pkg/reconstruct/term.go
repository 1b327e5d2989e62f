package reconstruct

import (
	"context"

	"github.com/xetproto/xetgo/pkg/xeterr"
	"github.com/xetproto/xetgo/pkg/xorb"
)

// FetchTerm resolves term to its covering FetchInfo, downloads the
// corresponding xorb byte range, and extracts term's chunk range from it
// (spec §4.G "Term resolution"). It is shared by the serial Engine and by
// pkg/fetch's parallel workers, which hold their own RangeFetcher.
func FetchTerm(ctx context.Context, fetcher RangeFetcher, term Term, candidates []FetchInfo) ([]byte, error) {
	fi, ok := findCoveringFetchInfo(term.ChunkRange, candidates)
	if !ok {
		if len(candidates) == 0 {
			return nil, xeterr.New(xeterr.CodeMissingFetchInfo, "no fetch-info for term's xorb").
				WithHash(term.XorbHash.String())
		}
		return nil, xeterr.New(xeterr.CodeNoMatchingFetch, "no fetch-info covers term's chunk range").
			WithHash(term.XorbHash.String())
	}

	raw, err := fetcher.FetchRange(ctx, fi.URL, fi.URLRangeStart, fi.URLRangeEnd)
	if err != nil {
		return nil, err
	}

	localStart := term.ChunkRange.Start - fi.ChunkRange.Start
	localEnd := term.ChunkRange.End - fi.ChunkRange.Start
	return xorb.ExtractChunkRange(raw, localStart, localEnd)
}

// findCoveringFetchInfo returns the unique candidate whose chunk range is
// a superset of r (spec §4.G).
func findCoveringFetchInfo(r Range, candidates []FetchInfo) (FetchInfo, bool) {
	for _, fi := range candidates {
		if fi.ChunkRange.Start <= r.Start && fi.ChunkRange.End >= r.End {
			return fi, true
		}
	}
	return FetchInfo{}, false
}
