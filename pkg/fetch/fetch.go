// Package fetch implements the bounded worker-pool fetcher of spec §4.H:
// concurrent per-term downloads with disjoint result slots, first-error
// propagation, and strict term-order assembly after join, grounded on the
// teacher's worker-pool idiom and built on golang.org/x/sync's errgroup
// and semaphore rather than hand-rolled channel plumbing.
package fetch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/xetproto/xetgo/pkg/reconstruct"
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// Config tunes a ParallelFetcher (spec §5 "Scheduling model").
type Config struct {
	// Workers bounds concurrent in-flight term fetches. DefaultConfig sets
	// it to the CPU count; New raises a non-positive value to 1.
	Workers int
	// Progress, if set, is invoked after each term completes successfully.
	Progress func(completed, total int)
}

// DefaultConfig returns a Config with Workers set to the host's CPU count.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// FetcherFactory constructs a fresh RangeFetcher for one worker. Each
// worker gets its own instance so HTTP clients never share connection
// pools or mutable state across goroutines (spec §4.H).
type FetcherFactory func() reconstruct.RangeFetcher

// ParallelFetcher fetches and extracts a term list concurrently, bounded
// by Config.Workers, assembling results in strict term order after all
// workers join (spec §4.H).
type ParallelFetcher struct {
	newFetcher FetcherFactory
	cfg        Config
}

// New builds a ParallelFetcher. A non-positive Workers count is raised to 1.
func New(newFetcher FetcherFactory, cfg Config) *ParallelFetcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &ParallelFetcher{newFetcher: newFetcher, cfg: cfg}
}

// FetchAll fetches every term concurrently and returns their extracted
// bytes in the same order as terms. The first worker error aborts all
// remaining work and is returned; no partial results are returned on
// failure (spec §4.H "First-error semantics").
func (p *ParallelFetcher) FetchAll(ctx context.Context, terms []reconstruct.Term, fetchInfo map[string][]reconstruct.FetchInfo) ([][]byte, error) {
	n := len(terms)
	if n == 0 {
		return nil, nil
	}

	results := make([][]byte, n)
	sem := semaphore.NewWeighted(int64(p.cfg.Workers))
	group, gctx := errgroup.WithContext(ctx)

	var progressMu sync.Mutex
	completed := 0

	for idx, term := range terms {
		idx, term := idx, term
		if err := sem.Acquire(gctx, 1); err != nil {
			break // context already cancelled by an earlier failure
		}
		group.Go(func() error {
			defer sem.Release(1)

			fetcher := p.newFetcher()
			extracted, err := reconstruct.FetchTerm(gctx, fetcher, term, fetchInfo[term.XorbHash.String()])
			if err != nil {
				return err
			}
			results[idx] = extracted

			if p.cfg.Progress != nil {
				progressMu.Lock()
				completed++
				p.cfg.Progress(completed, n)
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	for i, r := range results {
		if r == nil {
			return nil, xeterr.New(xeterr.CodeMissingResult, fmt.Sprintf("term %d produced no result", i)).WithTerm(i)
		}
	}
	return results, nil
}

// Assemble concatenates per-term results in order, verifying each term's
// length against its declared UnpackedLength (spec §4.G "Whole-file path").
func Assemble(results [][]byte, terms []reconstruct.Term) ([]byte, error) {
	if len(results) != len(terms) {
		return nil, xeterr.New(xeterr.CodeSizeMismatch, "result count does not match term count")
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	out := make([]byte, 0, total)
	for i, r := range results {
		if uint32(len(r)) != terms[i].UnpackedLength {
			return nil, xeterr.New(xeterr.CodeSizeMismatch,
				fmt.Sprintf("term %d: got %d bytes, declared %d", i, len(r), terms[i].UnpackedLength)).WithTerm(i)
		}
		out = append(out, r...)
	}
	return out, nil
}
