// Package merkle builds the hierarchical hash trees that anchor every
// BlockFrame manifest, and the inclusion proofs that let a caller verify one
// leaf without touching the rest of the tree.
//
// Modeled on the sibling+positional-parity proof shape of
// certenIO-certen-validator's pkg/merkle/receipt.go (Receipt/ReceiptEntry,
// Validate replaying the path against an Anchor), but BlockFrame's hashing
// convention differs from that receipt format: parents are BLAKE3 of the
// *hex strings* of their children concatenated, not raw bytes — the wire
// format BlockFrame's manifests and cross-implementation interop depend on.
package merkle

import (
	"fmt"

	"github.com/crushr3sist/blockframe/internal/blockhash"
)

// Tree is an immutable value object: once built it is never mutated, so it
// is safe to share across goroutines without synchronization.
type Tree struct {
	levels [][]blockhash.Hash // levels[0] is the leaves, last level has one node: the root.
}

// Build constructs a tree over leaves. A single leaf is itself the root. An
// odd-sized level is completed by duplicating its last node.
func Build(leaves []blockhash.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("merkle: build: no leaves supplied")
	}

	levels := make([][]blockhash.Hash, 0, 8)
	current := append([]blockhash.Hash(nil), leaves...)
	levels = append(levels, current)

	for len(current) > 1 {
		next := make([]blockhash.Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			left := current[i]
			right := current[i]
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, parentHash(left, right))
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{levels: levels}, nil
}

// parentHash implements BlockFrame's hex-concatenation convention:
// BLAKE3(hex(left) || hex(right)), not raw-byte concatenation.
func parentHash(left, right blockhash.Hash) blockhash.Hash {
	buf := make([]byte, 0, blockhash.HexLen*2)
	buf = append(buf, []byte(left.String())...)
	buf = append(buf, []byte(right.String())...)
	return blockhash.Sum(buf)
}

// Root returns the tree's top hash.
func (t *Tree) Root() blockhash.Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// LeafCount reports how many leaves the tree was built from.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// Proof returns the sibling hash at each level from leafIndex up to the
// root. For a duplicated odd leaf the sibling equals the node itself.
func (t *Tree) Proof(leafIndex int) ([]blockhash.Hash, error) {
	if leafIndex < 0 || leafIndex >= t.LeafCount() {
		return nil, fmt.Errorf("merkle: proof: leaf index %d out of range [0,%d)", leafIndex, t.LeafCount())
	}

	proof := make([]blockhash.Hash, 0, len(t.levels)-1)
	idx := leafIndex
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		var siblingIdx int
		if idx%2 == 0 {
			siblingIdx = idx + 1
			if siblingIdx >= len(nodes) {
				siblingIdx = idx
			}
		} else {
			siblingIdx = idx - 1
		}
		proof = append(proof, nodes[siblingIdx])
		idx /= 2
	}
	return proof, nil
}

// Verify replays the construction of a Merkle path using positional parity
// (even index at a level means the current node is the left child, odd
// means right) and reports whether it reproduces root.
func Verify(leafHash blockhash.Hash, proof []blockhash.Hash, leafIndex int, root blockhash.Hash) bool {
	current := leafHash
	idx := leafIndex
	for _, sibling := range proof {
		if idx%2 == 0 {
			current = parentHash(current, sibling)
		} else {
			current = parentHash(sibling, current)
		}
		idx /= 2
	}
	return current == root
}
