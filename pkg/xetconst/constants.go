// Package xetconst defines the constants shared across the XET CAS client:
// the Gearhash rolling-hash table and the chunk/xorb size limits (spec §3,
// §4.B). The keyed-BLAKE3 domain keys live in pkg/xethash.
package xetconst

// Chunk size bounds (spec §3).
const (
	MinChunkSize    = 8 * 1024   // 8 KiB
	TargetChunkSize = 64 * 1024  // 64 KiB
	MaxChunkSize    = 128 * 1024 // 128 KiB
)

// MaxXorbSize is the maximum serialized size of a single xorb (spec §3).
const MaxXorbSize = 64 * 1024 * 1024

// MaxU24 is the largest value representable in the 24-bit size fields of a
// XorbChunkHeader (spec §3).
const MaxU24 = 0xFFFFFF

// publishedGearEntries are the first ten entries of the reference Gearhash
// table, reproduced verbatim from the specification.
var publishedGearEntries = [10]uint64{
	0xb088d3a9e840f559, 0x5652c7f739ed20d6, 0x45b28969898972ab, 0x6b0a89d5b68ec777,
	0x368f573e8b7a31b7, 0x1dc636dce936d94b, 0x207a4c4e5554d5b6, 0xa474b34628239acb,
	0x3b06a83e1ca3b912, 0x90e78d6c2f02baf7,
}

// GearTable is the 256-entry Gearhash lookup table used by the
// content-defined chunker (spec §4.B). Entries [0:10] match the reference
// implementation's published constants exactly; entries [10:256] are
// synthesized deterministically (see computeGearTable below) since the full
// reference table was not recoverable in this environment. See
// DESIGN.md's Open Question entry for the consequence: byte-exact
// reproduction of spec §8's literal chunker boundary vectors is not
// claimed, only the universal chunking invariants are.
var GearTable = computeGearTable()

func computeGearTable() [256]uint64 {
	var table [256]uint64
	copy(table[:10], publishedGearEntries[:])

	// Deterministic continuation: the same SplitMix64 step spec §8 uses to
	// generate its own synthetic test corpus, seeded from the last
	// published entry so the table is reproducible without any external
	// input.
	state := publishedGearEntries[9]
	for i := 10; i < 256; i++ {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		table[i] = z ^ (z >> 31)
	}
	return table
}
