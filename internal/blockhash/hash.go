// Package blockhash provides the BLAKE3 hashing primitive BlockFrame anchors
// every manifest and Merkle leaf to.
//
// Hash is always the 32-byte BLAKE3 digest, serialized as 64 lowercase hex
// characters on the wire (manifest JSON, Merkle proofs). Nothing above this
// package should reach for crypto/sha256 or hash/crc64 directly — BLAKE3 is
// the one hash convention BlockFrame uses end to end.
package blockhash

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// HexLen is the length of a Hash's hex-encoded wire form.
const HexLen = Size * 2

// Hash is a 32-byte BLAKE3 digest.
type Hash [Size]byte

// Sum computes the BLAKE3 hash of data.
func Sum(data []byte) Hash {
	digest := blake3.Sum256(data)
	return Hash(digest)
}

// SumReader computes the BLAKE3 hash of everything read from r, without
// buffering the whole stream in memory.
func SumReader(r io.Reader) (Hash, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return Hash{}, fmt.Errorf("blockhash: hash stream: %w", err)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}

// String renders the hash as 64 lowercase hex characters.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero hash (never a valid digest in
// practice, used as a sentinel for "not yet computed").
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ParseHash decodes a 64-character lowercase hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	if !IsWellFormedHex(s) {
		return Hash{}, fmt.Errorf("blockhash: malformed hash %q", s)
	}
	var out Hash
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return Hash{}, fmt.Errorf("blockhash: decode hash %q: %w", s, err)
	}
	return out, nil
}

// IsWellFormedHex reports whether s is exactly HexLen lowercase hex characters.
func IsWellFormedHex(s string) bool {
	if len(s) != HexLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
