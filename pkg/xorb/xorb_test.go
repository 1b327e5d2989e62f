package xorb

import (
	"bytes"
	"testing"

	"github.com/xetproto/xetgo/pkg/compression"
	"github.com/xetproto/xetgo/pkg/xethash"
)

func buildThreeChunkXorb(t *testing.T) []byte {
	t.Helper()
	b := NewBuilder()
	for _, payload := range []string{"Chunk 0", "Chunk 1", "Chunk 2"} {
		if err := b.Add([]byte(payload), compression.TagNone); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	return data
}

func TestXorbThreeChunkRoundTrip(t *testing.T) {
	// spec §8 scenario 5.
	data := buildThreeChunkXorb(t)

	chunk, err := GetChunk(data, 1)
	if err != nil {
		t.Fatalf("GetChunk(1) failed: %v", err)
	}
	if string(chunk.Data) != "Chunk 1" {
		t.Fatalf("GetChunk(1) = %q, want %q", chunk.Data, "Chunk 1")
	}

	extracted, err := ExtractChunkRange(data, 1, 3)
	if err != nil {
		t.Fatalf("ExtractChunkRange(1,3) failed: %v", err)
	}
	if string(extracted) != "Chunk 1Chunk 2" {
		t.Fatalf("ExtractChunkRange(1,3) = %q, want %q", extracted, "Chunk 1Chunk 2")
	}
}

func TestXorbRoundTripAllCodecs(t *testing.T) {
	payloads := [][]byte{
		bytes.Repeat([]byte("aaaa"), 5000),
		[]byte("short"),
		{},
		bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 3000),
	}

	for _, tag := range []compression.Tag{compression.TagNone, compression.TagLZ4, compression.TagByteGrouping4LZ4, compression.TagFullBitsliceLZ4} {
		b := NewBuilder()
		for _, p := range payloads {
			if err := b.Add(p, tag); err != nil {
				t.Fatalf("tag %v: Add failed: %v", tag, err)
			}
		}
		data, err := b.Serialize()
		if err != nil {
			t.Fatalf("tag %v: Serialize failed: %v", tag, err)
		}

		r := NewReader(data)
		for i, want := range payloads {
			chunk, ok, err := r.NextChunk()
			if err != nil {
				t.Fatalf("tag %v chunk %d: NextChunk failed: %v", tag, i, err)
			}
			if !ok {
				t.Fatalf("tag %v chunk %d: unexpected EOF", tag, i)
			}
			if !bytes.Equal(chunk.Data, want) {
				t.Fatalf("tag %v chunk %d: data mismatch", tag, i)
			}
			if int(chunk.Index) != i {
				t.Fatalf("tag %v chunk %d: index = %d", tag, i, chunk.Index)
			}
		}
		if _, ok, err := r.NextChunk(); ok || err != nil {
			t.Fatalf("tag %v: expected EOF, got ok=%v err=%v", tag, ok, err)
		}
	}
}

func TestXorbHashSingleChunkIdentity(t *testing.T) {
	b := NewBuilder()
	if err := b.Add([]byte("solo"), compression.TagNone); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// A single-leaf Merkle tree returns the leaf hash unchanged.
	if got, want := b.XorbHash(), xethash.DataHash([]byte("solo")); got != want {
		t.Fatalf("XorbHash of one chunk = %s, want its DataHash %s", got, want)
	}
}

func TestTruncatedXorbHeader(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, _, err := r.NextChunk()
	if err == nil {
		t.Fatal("expected truncated-header error")
	}
}

func TestTruncatedXorbPayload(t *testing.T) {
	data := buildThreeChunkXorb(t)
	truncated := data[:len(data)-2]
	r := NewReader(truncated)
	// first two chunks parse fine, third is truncated
	for i := 0; i < 2; i++ {
		if _, ok, err := r.NextChunk(); !ok || err != nil {
			t.Fatalf("chunk %d: ok=%v err=%v", i, ok, err)
		}
	}
	if _, _, err := r.NextChunk(); err == nil {
		t.Fatal("expected truncated-payload error on final chunk")
	}
}

func TestExtractChunkRangeInvalidRange(t *testing.T) {
	data := buildThreeChunkXorb(t)
	if _, err := ExtractChunkRange(data, 5, 5); err == nil {
		t.Fatal("expected invalid-range error for start==end")
	}
}

func TestExtractChunkRangeOutOfBounds(t *testing.T) {
	data := buildThreeChunkXorb(t)
	if _, err := ExtractChunkRange(data, 1, 10); err == nil {
		t.Fatal("expected range-out-of-bounds error")
	}
}

func TestBuilderRefusesOverLimit(t *testing.T) {
	b := NewBuilder()
	big := make([]byte, 40<<20) // 40 MiB
	if err := b.Add(big, compression.TagNone); err != nil {
		t.Fatalf("first 40MiB add should fit: %v", err)
	}
	if err := b.Add(big, compression.TagNone); err == nil {
		t.Fatal("second 40MiB add should exceed the 64 MiB xorb limit")
	}
}
