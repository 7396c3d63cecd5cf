package manifest_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushr3sist/blockframe/internal/apperrors"
	"github.com/crushr3sist/blockframe/internal/manifest"
)

func hex(fill byte) string {
	return strings.Repeat(string("0123456789abcdef"[fill%16]), 64)
}

func tier1Manifest() *manifest.Manifest {
	return &manifest.Manifest{
		Name:           "tiny.bin",
		Size:           4096,
		OriginalHash:   hex(1),
		Tier:           manifest.Tier1,
		SegmentSize:    32 << 20,
		TimeOfCreation: time.Unix(0, 0).UTC(),
		ErasureCoding:  manifest.ErasureCoding{DataShards: 1, ParityShards: 3},
		MerkleTree: manifest.MerkleTree{
			Leaves:   map[int]string{0: hex(2)},
			Segments: map[int]manifest.SegmentHashes{},
			Blocks:   map[int]manifest.BlockHashes{},
			Root:     hex(2),
		},
		Tier1ParityHashes: [3]string{hex(20), hex(21), hex(22)},
	}
}

func tier2Manifest() *manifest.Manifest {
	return &manifest.Manifest{
		Name:           "medium.bin",
		Size:           100 << 20,
		OriginalHash:   hex(3),
		Tier:           manifest.Tier2,
		SegmentSize:    32 << 20,
		TimeOfCreation: time.Unix(0, 0).UTC(),
		ErasureCoding:  manifest.ErasureCoding{DataShards: 1, ParityShards: 3},
		MerkleTree: manifest.MerkleTree{
			Leaves: map[int]string{},
			Segments: map[int]manifest.SegmentHashes{
				0: {Data: hex(4), Parity: [3]string{hex(5), hex(6), hex(7)}},
				1: {Data: hex(8), Parity: [3]string{hex(9), hex(10), hex(11)}},
			},
			Blocks: map[int]manifest.BlockHashes{},
			Root:   hex(12),
		},
	}
}

func tier3Manifest() *manifest.Manifest {
	segs := make([]string, manifest.SegmentsPerBlock)
	for i := range segs {
		segs[i] = hex(byte(i))
	}
	return &manifest.Manifest{
		Name:           "large.bin",
		Size:           2 << 30,
		OriginalHash:   hex(13),
		Tier:           manifest.Tier3,
		SegmentSize:    32 << 20,
		TimeOfCreation: time.Unix(0, 0).UTC(),
		ErasureCoding:  manifest.ErasureCoding{DataShards: manifest.SegmentsPerBlock, ParityShards: 3},
		MerkleTree: manifest.MerkleTree{
			Leaves:   map[int]string{},
			Segments: map[int]manifest.SegmentHashes{},
			Blocks: map[int]manifest.BlockHashes{
				0: {Segments: segs, Parity: [3]string{hex(14), hex(15), hex(16)}},
			},
			Root: hex(17),
		},
	}
}

func TestValidate_AcceptsWellFormedTiers(t *testing.T) {
	for _, m := range []*manifest.Manifest{tier1Manifest(), tier2Manifest(), tier3Manifest()} {
		assert.NoError(t, m.Validate())
	}
}

func TestValidate_RejectsMalformedRoot(t *testing.T) {
	m := tier1Manifest()
	m.MerkleTree.Root = "not-hex"

	err := m.Validate()
	assert.ErrorIs(t, err, apperrors.ErrMalformedHash)
}

func TestValidate_RejectsMultiplePopulatedMaps(t *testing.T) {
	m := tier1Manifest()
	m.MerkleTree.Segments[0] = manifest.SegmentHashes{Data: hex(1), Parity: [3]string{hex(1), hex(1), hex(1)}}

	err := m.Validate()
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestValidate_RejectsNonContiguousIndices(t *testing.T) {
	m := tier2Manifest()
	delete(m.MerkleTree.Segments, 0)
	m.MerkleTree.Segments[2] = manifest.SegmentHashes{Data: hex(1), Parity: [3]string{hex(1), hex(1), hex(1)}}

	err := m.Validate()
	assert.ErrorIs(t, err, apperrors.ErrNonContiguousIndices)
}

func TestValidate_RejectsTierEncodingMismatch(t *testing.T) {
	m := tier3Manifest()
	m.ErasureCoding = manifest.ErasureCoding{DataShards: 1, ParityShards: 3}

	err := m.Validate()
	assert.ErrorIs(t, err, apperrors.ErrTierEncodingMismatch)
}

func TestValidate_RejectsUnknownTier(t *testing.T) {
	m := tier1Manifest()
	m.Tier = manifest.Tier(7)

	err := m.Validate()
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := manifest.Parse([]byte(`{"name":"x","unexpected_field":true}`))
	assert.Error(t, err)
}

func TestSerialize_RoundTrip(t *testing.T) {
	m := tier2Manifest()

	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := manifest.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, m.Name, parsed.Name)
	assert.Equal(t, m.MerkleTree.Root, parsed.MerkleTree.Root)
	assert.NoError(t, parsed.Validate())
}

// S6 — a manifest with populated leaves but a declared tier of 2 (which
// requires segments) must be rejected as a schema mismatch, not silently
// accepted with an empty segments map.
func TestValidate_S6_PreMigrationSchemaRejected(t *testing.T) {
	m := tier2Manifest()
	m.MerkleTree.Segments = map[int]manifest.SegmentHashes{}
	m.MerkleTree.Leaves = map[int]string{0: hex(1)}

	err := m.Validate()
	assert.ErrorIs(t, err, apperrors.ErrSchemaMismatch)
}
