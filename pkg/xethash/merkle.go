package xethash

import (
	"encoding/binary"
	"fmt"
)

// MerkleNode is a node in the variable-branching Merkle tree: a leaf
// carries a chunk hash, an internal node carries the aggregated hash of a
// group of children (spec §3).
type MerkleNode struct {
	Hash Hash
	Size uint64
}

// minGroup and maxGroup bound the branching factor: a group has at most
// 2*meanBranch+1 = 9 children, and at least 2 unless it starts at the last
// node of a level, in which case that node forms a group of its own.
const (
	minGroup  = 2
	maxGroup  = 9
	meanBranch = 4
)

// BuildMerkleTree aggregates an ordered list of leaf nodes into a single
// root hash using the variable-branching scheme of spec §4.C: empty input
// yields the zero hash, a single leaf yields its own hash unchanged, and
// otherwise repeated passes merge runs of up to 9 children (see minGroup)
// until one node remains.
func BuildMerkleTree(leaves []MerkleNode) Hash {
	if len(leaves) == 0 {
		return Zero
	}
	if len(leaves) == 1 {
		return leaves[0].Hash
	}

	level := leaves
	for len(level) > 1 {
		level = mergeLevel(level)
	}
	return level[0].Hash
}

// mergeLevel performs one pass of grouping+merging over level, producing a
// strictly shorter list (unless level already has length 1).
func mergeLevel(level []MerkleNode) []MerkleNode {
	next := make([]MerkleNode, 0, (len(level)+minGroup-1)/minGroup)

	for i := 0; i < len(level); {
		groupEnd := chooseGroupEnd(level, i)
		next = append(next, mergeGroup(level[i:groupEnd]))
		i = groupEnd
	}
	return next
}

// chooseGroupEnd scans candidate cut points i+2 .. min(i+9, len) and
// returns the exclusive end of the group starting at i, per spec §4.C's
// trigger: the last 8 bytes of the candidate child's hash, read as a
// little-endian u64, trigger a cut when divisible by 4.
func chooseGroupEnd(level []MerkleNode, i int) int {
	limit := i + maxGroup
	if limit > len(level) {
		limit = len(level)
	}

	for k := i + minGroup; k <= limit; k++ {
		candidate := level[k-1]
		last8 := candidate.Hash[Size-8:]
		v := binary.LittleEndian.Uint64(last8)
		if v%meanBranch == 0 {
			return k
		}
	}
	return limit
}

// mergeGroup computes the merged node for a group of children: the text
// buffer of "hexhash : size\n" lines per child, hashed under the
// internal-node key, with size equal to the sum of child sizes (spec
// §4.C).
func mergeGroup(group []MerkleNode) MerkleNode {
	var buf []byte
	var totalSize uint64
	for _, child := range group {
		buf = append(buf, []byte(fmt.Sprintf("%s : %d\n", ToAPIHex(child.Hash), child.Size))...)
		totalSize += child.Size
	}
	return MerkleNode{
		Hash: InternalNodeHash(buf),
		Size: totalSize,
	}
}
