package xethash

import "lukechampine.com/blake3"

// KeySize is the length in bytes of every keyed-BLAKE3 domain key.
const KeySize = 32

// Domain-separation keys for the four keyed-BLAKE3 hash families used
// throughout the CAS protocol (spec §3/§4.C): chunk data, internal Merkle
// nodes, the file hash, and out-of-band verification hashes. The
// reference implementation's literal key bytes were not recoverable in
// this environment, so each key here is derived once, deterministically,
// via BLAKE3's own key-derivation function keyed on a descriptive context
// string — the same derive-key mechanism the upstream blake3 package
// exposes for exactly this purpose. This keeps the four keys distinct,
// reproducible, and free of arbitrary magic bytes; see DESIGN.md for the
// consequence this has for bit-exact vector tests.
var (
	DataHashKey         = deriveKey("xet 2024 chunk data hash key")
	InternalNodeHashKey = deriveKey("xet 2024 merkle internal node hash key")
	FileHashKey         = deriveKey("xet 2024 file hash key")
	VerificationHashKey = deriveKey("xet 2024 verification hash key")

	// zeroKey is the all-zero key; as a chunk-hash transformation key it
	// means "no keyed protection" per spec §4.C.
	zeroKey [KeySize]byte
)

func deriveKey(context string) [KeySize]byte {
	var out [KeySize]byte
	blake3.DeriveKey(out[:], context, nil)
	return out
}
