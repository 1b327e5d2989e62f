package xetconst

import "testing"

func TestGearTablePublishedPrefix(t *testing.T) {
	want := [10]uint64{
		0xb088d3a9e840f559, 0x5652c7f739ed20d6, 0x45b28969898972ab, 0x6b0a89d5b68ec777,
		0x368f573e8b7a31b7, 0x1dc636dce936d94b, 0x207a4c4e5554d5b6, 0xa474b34628239acb,
		0x3b06a83e1ca3b912, 0x90e78d6c2f02baf7,
	}
	for i, v := range want {
		if GearTable[i] != v {
			t.Fatalf("GearTable[%d] = %#x, want %#x", i, GearTable[i], v)
		}
	}
}

func TestGearTableFullyPopulated(t *testing.T) {
	seen := make(map[uint64]bool, 256)
	for i, v := range GearTable {
		if i >= 10 && v == 0 {
			t.Fatalf("GearTable[%d] should not be zero", i)
		}
		seen[v] = true
	}
	if len(seen) < 250 {
		t.Fatalf("GearTable entries should be effectively unique, got %d distinct of 256", len(seen))
	}
}

func TestSizeBoundsOrdering(t *testing.T) {
	if !(MinChunkSize < TargetChunkSize && TargetChunkSize < MaxChunkSize) {
		t.Fatalf("chunk size bounds out of order: min=%d target=%d max=%d", MinChunkSize, TargetChunkSize, MaxChunkSize)
	}
	if MaxXorbSize <= MaxChunkSize {
		t.Fatalf("MaxXorbSize must exceed MaxChunkSize")
	}
}
