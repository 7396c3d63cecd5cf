package chunker_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushr3sist/blockframe/internal/apperrors"
	"github.com/crushr3sist/blockframe/internal/chunker"
	"github.com/crushr3sist/blockframe/internal/config"
	"github.com/crushr3sist/blockframe/internal/manifest"
)

func newTestConfig(t *testing.T, segmentSize int64, tier1Ceiling, tier2Ceiling int64) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("archive_root", t.TempDir())
	v.Set("segment_size", segmentSize)
	v.Set("tier1_ceiling", tier1Ceiling)
	v.Set("tier2_ceiling", tier2Ceiling)
	cfg, err := config.LoadConfig(v)
	require.NoError(t, err)
	return cfg
}

func writeFile(t *testing.T, size int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 253)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCommit_RejectsEmptyFile(t *testing.T) {
	cfg := newTestConfig(t, 4096, 1<<10, 1<<20)
	path := writeFile(t, 0)

	_, err := chunker.New(cfg).Commit(context.Background(), path, nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyFile)
}

func TestCommit_Tier1ProducesOneLeafManifest(t *testing.T) {
	cfg := newTestConfig(t, 4096, 1<<20, 1<<30)
	path := writeFile(t, 1024)

	result, err := chunker.New(cfg).Commit(context.Background(), path, nil)
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, manifest.Tier1, m.Tier)
	assert.Len(t, m.MerkleTree.Leaves, 1)
	assert.Empty(t, m.MerkleTree.Segments)
	assert.Empty(t, m.MerkleTree.Blocks)
	assert.Equal(t, m.MerkleTree.Leaves[0], m.MerkleTree.Root)

	for _, p := range m.Tier1ParityHashes {
		assert.NotEmpty(t, p)
	}

	for _, name := range []string{"data.dat", "parity_0.dat", "parity_1.dat", "parity_2.dat"} {
		_, err := os.Stat(filepath.Join(result.ArchivePath, name))
		assert.NoError(t, err)
	}
	_, err = os.Stat(filepath.Join(result.ArchivePath, "manifest.json"))
	assert.NoError(t, err)
}

func TestCommit_Tier2ProducesPerSegmentManifest(t *testing.T) {
	cfg := newTestConfig(t, 4096, 2048, 1<<30)
	path := writeFile(t, 4096*3+100)

	progressed := 0
	result, err := chunker.New(cfg).Commit(context.Background(), path, func(done, total int) {
		progressed = done
		assert.Equal(t, 4, total)
	})
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, manifest.Tier2, m.Tier)
	assert.Len(t, m.MerkleTree.Segments, 4)
	assert.Empty(t, m.MerkleTree.Leaves)
	assert.Empty(t, m.MerkleTree.Blocks)
	assert.Equal(t, 4, progressed)

	for i := 0; i < 4; i++ {
		_, err := os.Stat(filepath.Join(result.ArchivePath, "segments", "segment_"+strconv.Itoa(i)+".dat"))
		assert.NoError(t, err)
		for k := 0; k < 3; k++ {
			_, err := os.Stat(filepath.Join(result.ArchivePath, "parity", "segment_"+strconv.Itoa(i)+"_parity_"+strconv.Itoa(k)+".dat"))
			assert.NoError(t, err)
		}
	}
}

func TestCommit_Tier3ProducesPerBlockManifest(t *testing.T) {
	// Small segment_size keeps this test fast while still exercising a
	// real multi-block tier-3 commit: 70 full segments plus a 5-byte tail
	// segment -> 71 segments -> 3 blocks, last one short.
	segSize := int64(64)
	cfg := newTestConfig(t, segSize, 10, 20)
	path := writeFile(t, int(segSize)*70+5)

	result, err := chunker.New(cfg).Commit(context.Background(), path, nil)
	require.NoError(t, err)

	m := result.Manifest
	assert.Equal(t, manifest.Tier3, m.Tier)
	assert.Len(t, m.MerkleTree.Blocks, 3)
	assert.Empty(t, m.MerkleTree.Leaves)
	assert.Empty(t, m.MerkleTree.Segments)

	assert.Len(t, m.MerkleTree.Blocks[0].Segments, 30)
	assert.Len(t, m.MerkleTree.Blocks[1].Segments, 30)
	assert.Len(t, m.MerkleTree.Blocks[2].Segments, 11) // 70-60=10 full segs + 1 partial

	require.NoError(t, m.Validate())
}

func TestCommit_TailBlockRecordsOnlyRealSegments(t *testing.T) {
	segSize := int64(32)
	cfg := newTestConfig(t, segSize, 10, 20)
	path := writeFile(t, int(segSize)*31) // 1 full block + 1-segment tail block

	result, err := chunker.New(cfg).Commit(context.Background(), path, nil)
	require.NoError(t, err)

	m := result.Manifest
	assert.Len(t, m.MerkleTree.Blocks, 2)
	assert.Len(t, m.MerkleTree.Blocks[1].Segments, 1)
}

