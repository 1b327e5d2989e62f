// Package xethash implements the XET CAS client's keyed-BLAKE3 hashing and
// variable-branching Merkle aggregation (spec §3, §4.C), grounded on the
// teacher's use of lukechampine.com/blake3 for Content Identifiers in
// pkg/content/cid.go, generalized from unkeyed BLAKE3-256 to the four
// domain-keyed hash families this protocol requires.
package xethash

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/xetproto/xetgo/pkg/xeterr"
	"lukechampine.com/blake3"
)

// Size is the length in bytes of a Hash.
const Size = 32

// Hash is a 32-byte keyed-BLAKE3 digest.
type Hash [Size]byte

// Zero is the all-zero hash, the Merkle root of an empty leaf list.
var Zero Hash

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool { return h == Zero }

func keyedHash(key [KeySize]byte, data []byte) Hash {
	hasher := blake3.New(Size, key[:])
	hasher.Write(data)
	var out Hash
	copy(out[:], hasher.Sum(nil))
	return out
}

// DataHash computes the keyed-BLAKE3 hash of chunk data (spec §3: "hash =
// computeDataHash(data)").
func DataHash(data []byte) Hash { return keyedHash(DataHashKey, data) }

// InternalNodeHash computes the keyed-BLAKE3 hash of a Merkle internal
// node's merged child buffer (spec §4.C).
func InternalNodeHash(data []byte) Hash { return keyedHash(InternalNodeHashKey, data) }

// FileHash computes keyedBlake3(FileHashKey, merkleRoot) per spec §4.C.
func FileHash(merkleRoot Hash) Hash { return keyedHash(FileHashKey, merkleRoot[:]) }

// FileHashWithSalt computes the file hash under a custom 32-byte salt; an
// all-zero salt is identical to FileHash (spec §4.C).
func FileHashWithSalt(merkleRoot Hash, salt [32]byte) Hash {
	if salt == ([32]byte{}) {
		return FileHash(merkleRoot)
	}
	return keyedHash(salt, merkleRoot[:])
}

// VerificationHash computes the keyed-BLAKE3 verification hash of data.
func VerificationHash(data []byte) Hash { return keyedHash(VerificationHashKey, data) }

// TransformChunkHash applies the chunk-hash transformation under key: if
// key is all-zero the hash passes through unchanged, otherwise it is
// re-hashed keyed under key (spec §4.C).
func TransformChunkHash(hash Hash, key [32]byte) Hash {
	if key == zeroKey {
		return hash
	}
	return keyedHash(key, hash[:])
}

// ToAPIHex renders a Hash as 64 lowercase hex digits by interpreting the 32
// bytes as four little-endian u64 words, each emitted MSB-first within the
// word (spec §3's "API hex" wire form).
func ToAPIHex(h Hash) string {
	var buf [64]byte
	for word := 0; word < 4; word++ {
		v := binary.LittleEndian.Uint64(h[word*8 : word*8+8])
		s := strconv.FormatUint(v, 16)
		// left-pad to 16 hex digits
		copy(buf[word*16:word*16+16], "0000000000000000")
		copy(buf[word*16+16-len(s):word*16+16], s)
	}
	return string(buf[:])
}

// FromAPIHex parses the 64-character API hex form back into a Hash.
func FromAPIHex(s string) (Hash, error) {
	if len(s) != 64 {
		return Hash{}, xeterr.New(xeterr.CodeInvalidHexLength,
			fmt.Sprintf("hash hex must be 64 characters, got %d", len(s)))
	}
	var h Hash
	for word := 0; word < 4; word++ {
		v, err := strconv.ParseUint(s[word*16:word*16+16], 16, 64)
		if err != nil {
			return Hash{}, xeterr.Wrap(xeterr.CodeInvalidHexLength, "invalid hex digit in hash", err)
		}
		binary.LittleEndian.PutUint64(h[word*8:word*8+8], v)
	}
	return h, nil
}

func (h Hash) String() string { return ToAPIHex(h) }
