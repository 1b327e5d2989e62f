package shard

import (
	"testing"
)

func fillHash(b byte) [32]byte {
	var h [32]byte
	for i := range h {
		h[i] = b
	}
	return h
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Version: CurrentVersion, FooterSize: FooterSize}
	buf := h.Encode()
	got, err := DecodeHeader(buf[:])
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestFooterRoundTrip(t *testing.T) {
	f := Footer{
		Version:           CurrentVersion,
		FileInfoOffset:    48,
		CASInfoOffset:     9999,
		CreationTimestamp: 1700000000,
		KeyExpiry:         0,
		FooterOffset:      123456,
	}
	f.ChunkHashHMACKey = fillHash(0x11)
	buf := f.Encode()
	got, err := DecodeFooter(buf[:])
	if err != nil {
		t.Fatalf("DecodeFooter failed: %v", err)
	}
	if got != f {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, f)
	}
}

func TestBuilderReaderRoundTrip(t *testing.T) {
	b := NewBuilder()

	fileHash := fillHash(0xAA)
	xorbHash := fillHash(0xBB)

	b.AddFileInfo(fileHash, []FileDataSequenceEntry{
		{XorbHash: xorbHash, ChunkIndexStart: 0, ChunkIndexEnd: 2, UnpackedLength: 4096},
		{XorbHash: xorbHash, ChunkIndexStart: 2, ChunkIndexEnd: 3, UnpackedLength: 1024},
	})

	chunkA := fillHash(0x01)
	chunkB := fillHash(0x02)
	chunkC := fillHash(0x03)
	b.AddCASInfo(xorbHash, []CASChunkSequenceEntry{
		{ChunkHash: chunkA, ByteOffset: 0, Size: 2000},
		{ChunkHash: chunkB, ByteOffset: 2008, Size: 2100},
		{ChunkHash: chunkC, ByteOffset: 4116, Size: 1030},
	}, 5120, 5138)

	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	r, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	files, err := r.ParseFileInfo()
	if err != nil {
		t.Fatalf("ParseFileInfo failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("ParseFileInfo returned %d files, want 1", len(files))
	}
	if files[0].FileHash != fileHash {
		t.Fatalf("file hash mismatch")
	}
	if files[0].FileSize != 5120 {
		t.Fatalf("file size = %d, want 5120", files[0].FileSize)
	}
	if len(files[0].Entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(files[0].Entries))
	}

	locs, err := r.ParseCASInfo()
	if err != nil {
		t.Fatalf("ParseCASInfo failed: %v", err)
	}
	if len(locs) != 3 {
		t.Fatalf("ParseCASInfo returned %d locations, want 3", len(locs))
	}
	for _, loc := range locs {
		if loc.XorbHash != xorbHash {
			t.Fatalf("xorb hash mismatch on location %+v", loc)
		}
	}
	if locs[0].ChunkHash != chunkA || locs[1].ChunkHash != chunkB || locs[2].ChunkHash != chunkC {
		t.Fatalf("chunk hash order mismatch: %+v", locs)
	}
	if locs[1].ByteOffset != 2008 || locs[1].Size != 2100 {
		t.Fatalf("location 1 mismatch: %+v", locs[1])
	}
}

func TestBuilderEmptySections(t *testing.T) {
	b := NewBuilder()
	if !b.Empty() {
		t.Fatal("fresh builder should be Empty()")
	}
	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	r, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	files, err := r.ParseFileInfo()
	if err != nil || len(files) != 0 {
		t.Fatalf("expected no files, got %v err=%v", files, err)
	}
	locs, err := r.ParseCASInfo()
	if err != nil || len(locs) != 0 {
		t.Fatalf("expected no CAS locations, got %v err=%v", locs, err)
	}
}

func TestBuilderMultipleFilesAndXorbs(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 3; i++ {
		b.AddFileInfo(fillHash(byte(0x10+i)), []FileDataSequenceEntry{
			{XorbHash: fillHash(byte(0x20 + i)), ChunkIndexStart: 0, ChunkIndexEnd: 1, UnpackedLength: 512},
		})
	}
	for i := 0; i < 2; i++ {
		b.AddCASInfo(fillHash(byte(0x30+i)), []CASChunkSequenceEntry{
			{ChunkHash: fillHash(byte(0x40 + i)), ByteOffset: 0, Size: 512},
		}, 512, 520)
	}

	data, err := b.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	r, err := NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	files, err := r.ParseFileInfo()
	if err != nil || len(files) != 3 {
		t.Fatalf("expected 3 files, got %d err=%v", len(files), err)
	}
	locs, err := r.ParseCASInfo()
	if err != nil || len(locs) != 2 {
		t.Fatalf("expected 2 CAS locations, got %d err=%v", len(locs), err)
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	_, err := DecodeHeader(buf)
	if err == nil {
		t.Fatal("expected error for all-zero header (bad magic)")
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	_, err := DecodeHeader([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestNewReaderTruncated(t *testing.T) {
	_, err := NewReader(make([]byte, 10))
	if err == nil {
		t.Fatal("expected error for shard smaller than header+footer")
	}
}
