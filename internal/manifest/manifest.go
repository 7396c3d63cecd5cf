// Package manifest defines BlockFrame's on-disk archive descriptor and the
// strict validation rules that keep a corrupt or pre-migration manifest from
// ever being trusted by the chunker or filestore.
//
// domain.ObjectMetadata (internal/domain/object_metadata.go) was a flat
// struct naming one shard-hash slice; BlockFrame's manifest is hierarchical
// — exactly one of Leaves, Segments, Blocks carries content, selected by
// Tier — so this package is new rather than adapted, matching the archive
// format's JSON schema and validate() contract.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crushr3sist/blockframe/internal/apperrors"
	"github.com/crushr3sist/blockframe/internal/blockhash"
)

// Tier selects the encoding strategy a file was committed under.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// SegmentsPerBlock is the fixed width of a tier-3 block.
const SegmentsPerBlock = 30

// ErasureCoding names the (data, parity) shard split used to build a unit.
type ErasureCoding struct {
	DataShards   int `json:"data_shards"`
	ParityShards int `json:"parity_shards"`
}

// SegmentHashes is the per-segment hash record for a tier-2 archive.
type SegmentHashes struct {
	Data   string    `json:"data"`
	Parity [3]string `json:"parity"`
}

// BlockHashes is the per-block hash record for a tier-3 archive. Segments
// holds up to SegmentsPerBlock entries; a tail block with fewer real
// segments simply has fewer entries — virtual zero-pad positions are never
// recorded here.
type BlockHashes struct {
	Segments []string  `json:"segments"`
	Parity   [3]string `json:"parity"`
}

// MerkleTree is the manifest's hierarchical hash section. Exactly one of
// Leaves, Segments, Blocks is populated, selected by the owning Manifest's Tier.
type MerkleTree struct {
	Leaves   map[int]string        `json:"leaves"`
	Segments map[int]SegmentHashes `json:"segments"`
	Blocks   map[int]BlockHashes   `json:"blocks"`
	Root     string                `json:"root"`
}

// Manifest is BlockFrame's single per-archive descriptor document, written
// to manifest.json last in every commit so discovery can treat its absence
// as "incomplete archive."
//
// Tier1ParityHashes carries the three parity-shard hashes for a tier-1
// archive. Tier 1 has no per-unit Segments entry (the merkle_tree's
// "exactly one populated" rule reserves that map for tier 2), so its
// parity hashes, recorded separately from the single data leaf, live in
// their own always-present-for-tier-1 field instead of borrowing the
// Segments map.
type Manifest struct {
	Name             string        `json:"name"`
	Size             int64         `json:"size"`
	OriginalHash     string        `json:"original_hash"`
	Tier             Tier          `json:"tier"`
	SegmentSize      int64         `json:"segment_size"`
	TimeOfCreation   time.Time     `json:"time_of_creation"`
	ErasureCoding    ErasureCoding `json:"erasure_coding"`
	MerkleTree       MerkleTree    `json:"merkle_tree"`
	Tier1ParityHashes [3]string    `json:"tier1_parity_hashes,omitempty"`
}

// Parse decodes a manifest document strictly: unknown fields are rejected
// so that a future schema revision never gets silently misread as today's.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: parse: %w", err)
	}
	return &m, nil
}

// Serialize renders m as indented JSON with stable field ordering (struct
// field order, per encoding/json's default behavior).
func (m *Manifest) Serialize() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: serialize: %w", err)
	}
	return out, nil
}

// expectedCoding returns the (data, parity) pair every tier is pinned to.
func expectedCoding(tier Tier) (ErasureCoding, bool) {
	switch tier {
	case Tier1, Tier2:
		return ErasureCoding{DataShards: 1, ParityShards: 3}, true
	case Tier3:
		return ErasureCoding{DataShards: SegmentsPerBlock, ParityShards: 3}, true
	default:
		return ErasureCoding{}, false
	}
}

// Validate checks the invariants an archive's validate() must hold: the root and
// every recorded hash is well-formed hex, the tier-appropriate map is
// non-empty with contiguous indices from 0, the other two maps are empty,
// and erasure_coding matches the declared tier.
func (m *Manifest) Validate() error {
	expected, ok := expectedCoding(m.Tier)
	if !ok {
		return fmt.Errorf("manifest: %w: tier %d", apperrors.ErrSchemaMismatch, m.Tier)
	}
	if m.ErasureCoding != expected {
		return fmt.Errorf("manifest: %w: tier %d wants (%d,%d), got (%d,%d)",
			apperrors.ErrTierEncodingMismatch, m.Tier,
			expected.DataShards, expected.ParityShards,
			m.ErasureCoding.DataShards, m.ErasureCoding.ParityShards)
	}

	if !blockhash.IsWellFormedHex(m.MerkleTree.Root) {
		return fmt.Errorf("manifest: root: %w", apperrors.ErrMalformedHash)
	}

	populated := 0
	if len(m.MerkleTree.Leaves) > 0 {
		populated++
	}
	if len(m.MerkleTree.Segments) > 0 {
		populated++
	}
	if len(m.MerkleTree.Blocks) > 0 {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("manifest: %w: exactly one of leaves/segments/blocks must be populated, found %d",
			apperrors.ErrSchemaMismatch, populated)
	}

	switch m.Tier {
	case Tier1:
		if len(m.MerkleTree.Segments) != 0 || len(m.MerkleTree.Blocks) != 0 {
			return fmt.Errorf("manifest: %w: tier 1 must carry only leaves", apperrors.ErrSchemaMismatch)
		}
		if err := validateContiguous(len(m.MerkleTree.Leaves), func(i int) (bool, error) {
			h, present := m.MerkleTree.Leaves[i]
			return present, checkHex(h)
		}); err != nil {
			return err
		}
		for k, p := range m.Tier1ParityHashes {
			if err := checkHex(p); err != nil {
				return fmt.Errorf("manifest: tier1_parity_hashes[%d]: %w", k, err)
			}
		}
	case Tier2:
		if len(m.MerkleTree.Leaves) != 0 || len(m.MerkleTree.Blocks) != 0 {
			return fmt.Errorf("manifest: %w: tier 2 must carry only segments", apperrors.ErrSchemaMismatch)
		}
		if err := validateContiguous(len(m.MerkleTree.Segments), func(i int) (bool, error) {
			sh, present := m.MerkleTree.Segments[i]
			if !present {
				return false, nil
			}
			if err := checkHex(sh.Data); err != nil {
				return true, err
			}
			for _, p := range sh.Parity {
				if err := checkHex(p); err != nil {
					return true, err
				}
			}
			return true, nil
		}); err != nil {
			return err
		}
	case Tier3:
		if len(m.MerkleTree.Leaves) != 0 || len(m.MerkleTree.Segments) != 0 {
			return fmt.Errorf("manifest: %w: tier 3 must carry only blocks", apperrors.ErrSchemaMismatch)
		}
		if err := validateContiguous(len(m.MerkleTree.Blocks), func(i int) (bool, error) {
			b, present := m.MerkleTree.Blocks[i]
			if !present {
				return false, nil
			}
			if len(b.Segments) == 0 || len(b.Segments) > SegmentsPerBlock {
				return true, fmt.Errorf("manifest: block %d: %w: %d segments recorded", i, apperrors.ErrSchemaMismatch, len(b.Segments))
			}
			for _, h := range b.Segments {
				if err := checkHex(h); err != nil {
					return true, err
				}
			}
			for _, p := range b.Parity {
				if err := checkHex(p); err != nil {
					return true, err
				}
			}
			return true, nil
		}); err != nil {
			return err
		}
	}

	if !blockhash.IsWellFormedHex(m.OriginalHash) {
		return fmt.Errorf("manifest: original_hash: %w", apperrors.ErrMalformedHash)
	}

	return nil
}

func checkHex(s string) error {
	if !blockhash.IsWellFormedHex(s) {
		return apperrors.ErrMalformedHash
	}
	return nil
}

// validateContiguous walks indices 0..n-1 calling check(i); check reports
// whether index i is present and any hash-format error found there. It fails
// closed: any gap or malformed hash anywhere in the run is reported.
func validateContiguous(n int, check func(i int) (present bool, err error)) error {
	if n == 0 {
		return fmt.Errorf("manifest: %w: no entries", apperrors.ErrNonContiguousIndices)
	}
	for i := 0; i < n; i++ {
		present, err := check(i)
		if !present {
			return fmt.Errorf("manifest: index %d: %w", i, apperrors.ErrNonContiguousIndices)
		}
		if err != nil {
			return fmt.Errorf("manifest: index %d: %w", i, err)
		}
	}
	return nil
}
