package compression

import (
	"bytes"
	"testing"
)

func allTags() []Tag {
	return []Tag{TagNone, TagLZ4, TagByteGrouping4LZ4, TagFullBitsliceLZ4}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		bytes.Repeat([]byte("compressible compressible compressible "), 500),
		randomish(4096),
	}

	for _, tag := range allTags() {
		for i, in := range inputs {
			compressed, used, err := Compress(in, tag)
			if err != nil {
				t.Fatalf("tag %v input %d: Compress failed: %v", tag, i, err)
			}
			out, err := Decompress(compressed, used, len(in))
			if err != nil {
				t.Fatalf("tag %v input %d: Decompress failed: %v", tag, i, err)
			}
			if !bytes.Equal(out, in) {
				t.Fatalf("tag %v input %d: round trip mismatch", tag, i)
			}
		}
	}
}

func TestCompressFallsBackToNoneWhenNotSmaller(t *testing.T) {
	// An 8-byte input can never shrink under LZ4 framing: the frame header
	// and end mark alone take 11 bytes, so every codec must fall back.
	in := randomish(8)
	for _, tag := range []Tag{TagLZ4, TagByteGrouping4LZ4, TagFullBitsliceLZ4} {
		compressed, used, err := Compress(in, tag)
		if err != nil {
			t.Fatalf("tag %v: Compress failed: %v", tag, err)
		}
		if used != TagNone {
			t.Fatalf("tag %v: expected fallback to %v, got %v", tag, TagNone, used)
		}
		if !bytes.Equal(compressed, in) {
			t.Fatalf("tag %v: fallback bytes must equal input verbatim", tag)
		}
	}
}

func TestDecompressNoneSizeMismatch(t *testing.T) {
	_, err := Decompress([]byte{1, 2, 3}, TagNone, 10)
	if err == nil {
		t.Fatal("expected size-mismatch error")
	}
}

func TestUnknownTagRejected(t *testing.T) {
	if _, _, err := Compress([]byte("x"), Tag(99)); err == nil {
		t.Fatal("expected error for unknown compression tag")
	}
	if _, err := Decompress([]byte("x"), Tag(99), 1); err == nil {
		t.Fatal("expected error for unknown compression tag")
	}
}

// randomish returns a deterministic, non-repeating byte sequence without
// depending on math/rand (kept dependency-free for the test package).
func randomish(n int) []byte {
	out := make([]byte, n)
	state := uint64(0xABCDEF0123456789)
	for i := range out {
		state = state*6364136223846793005 + 1442695040888963407
		out[i] = byte(state >> 33)
	}
	return out
}
