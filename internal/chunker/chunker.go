// Package chunker implements BlockFrame's commit pipeline: tier dispatch by
// file size, segmentation, Reed-Solomon parity generation, tier-specific
// archive layout, and manifest emission.
//
// Modeled on internal/service/file_service.go's UploadFile path (read-all,
// shard, store) for the overall commit shape, generalized from "ship shards
// to a cloud bucket" to "write shards to a local, tier-specific archive
// directory." Tier-3 block parallelism follows pkg/ncps/migrate_nar_to_chunks.go's
// errgroup pattern rather than a hand-rolled semaphore+WaitGroup, since
// errgroup.WithContext+SetLimit is the more idiomatic equivalent.
package chunker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crushr3sist/blockframe/internal/apperrors"
	"github.com/crushr3sist/blockframe/internal/blockhash"
	"github.com/crushr3sist/blockframe/internal/config"
	"github.com/crushr3sist/blockframe/internal/layout"
	"github.com/crushr3sist/blockframe/internal/manifest"
	"github.com/crushr3sist/blockframe/internal/merkle"
	"github.com/crushr3sist/blockframe/internal/rscodec"
)

// ProgressFunc is called as commit work completes, reporting how many of
// the total units (segments for tier 2, blocks for tier 3) are done so
// far. It is never called concurrently by Chunker.
type ProgressFunc func(done, total int)

// CommitResult is what a successful Commit returns.
type CommitResult struct {
	ArchivePath string
	Manifest    *manifest.Manifest
}

// Chunker drives the commit pipeline against a configured archive root.
type Chunker struct {
	cfg *config.Config
}

// New builds a Chunker bound to cfg's archive root and tier thresholds.
func New(cfg *config.Config) *Chunker {
	return &Chunker{cfg: cfg}
}

func (c *Chunker) workerCount() int {
	if c.cfg.WorkerCount > 0 {
		return c.cfg.WorkerCount
	}
	return runtime.NumCPU()
}

// Commit reads the file at path, selects a tier from its size, and writes a
// complete archive directory under the configured archive root, returning
// once manifest.json has been written.
func (c *Chunker) Commit(ctx context.Context, path string, progress ProgressFunc) (*CommitResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("chunker: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil, apperrors.ErrEmptyFile
	}

	name := filepath.Base(path)
	tier := c.cfg.TierFor(info.Size())

	switch tier {
	case manifest.Tier1:
		return c.commitTiny(path, name)
	case manifest.Tier2:
		return c.commitSegmented(ctx, path, name, info.Size(), progress)
	default:
		return c.commitBlocked(ctx, path, name, info.Size(), progress)
	}
}

func padTo(data []byte, size int64) []byte {
	if int64(len(data)) >= size {
		return data
	}
	padded := make([]byte, size)
	copy(padded, data)
	return padded
}

// commitTiny writes a whole-file RS(1,3) archive: a one-leaf Merkle tree,
// and a dedicated field for the three parity hashes (tier 1 has no
// Segments entry to carry them in).
func (c *Chunker) commitTiny(path, name string) (*CommitResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chunker: read %s: %w", path, err)
	}

	originalHash := blockhash.Sum(data)
	padded := padTo(data, c.cfg.SegmentSize)

	parity, err := rscodec.Encode([][]byte{padded}, 3)
	if err != nil {
		return nil, fmt.Errorf("chunker: encode tier-1 parity: %w", err)
	}

	dataHash := blockhash.Sum(padded)
	var parityHashes [3]string
	for k, p := range parity {
		parityHashes[k] = blockhash.Sum(p).String()
	}

	archiveDir := filepath.Join(c.cfg.ArchiveRoot, layout.ArchiveDirName(name, originalHash))
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return nil, fmt.Errorf("chunker: create archive dir: %w", err)
	}

	if err := os.WriteFile(layout.Tier1DataPath(archiveDir), padded, 0o644); err != nil {
		return nil, fmt.Errorf("chunker: write data.dat: %w", err)
	}
	for k, p := range parity {
		if err := os.WriteFile(layout.Tier1ParityPath(archiveDir, k), p, 0o644); err != nil {
			return nil, fmt.Errorf("chunker: write parity_%d.dat: %w", k, err)
		}
	}

	tree, err := merkle.Build([]blockhash.Hash{dataHash})
	if err != nil {
		return nil, fmt.Errorf("chunker: build tier-1 tree: %w", err)
	}

	m := &manifest.Manifest{
		Name:           name,
		Size:           int64(len(data)),
		OriginalHash:   originalHash.String(),
		Tier:           manifest.Tier1,
		SegmentSize:    c.cfg.SegmentSize,
		TimeOfCreation: time.Now().UTC(),
		ErasureCoding:  manifest.ErasureCoding{DataShards: 1, ParityShards: 3},
		MerkleTree: manifest.MerkleTree{
			Leaves:   map[int]string{0: dataHash.String()},
			Segments: map[int]manifest.SegmentHashes{},
			Blocks:   map[int]manifest.BlockHashes{},
			Root:     tree.Root().String(),
		},
		Tier1ParityHashes: parityHashes,
	}

	if err := writeManifest(archiveDir, m); err != nil {
		return nil, err
	}

	return &CommitResult{ArchivePath: archiveDir, Manifest: m}, nil
}

// commitSegmented writes a per-segment RS(1,3) archive. It reads the file
// twice — once to hash it in one sequential pass (so the hash-named
// archive directory can be created), once to cut and encode segments via
// ReadAt — rather than memory-mapping, since a streaming reader is an
// equally valid way to reach the same on-disk layout.
func (c *Chunker) commitSegmented(ctx context.Context, path, name string, size int64, progress ProgressFunc) (*CommitResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunker: open %s: %w", path, err)
	}
	defer f.Close()

	originalHash, err := blockhash.SumReader(f)
	if err != nil {
		return nil, fmt.Errorf("chunker: hash %s: %w", path, err)
	}

	archiveDir := filepath.Join(c.cfg.ArchiveRoot, layout.ArchiveDirName(name, originalHash))
	if err := os.MkdirAll(layout.Tier2SegmentsDir(archiveDir), 0o755); err != nil {
		return nil, fmt.Errorf("chunker: create segments dir: %w", err)
	}
	if err := os.MkdirAll(layout.Tier2ParityDir(archiveDir), 0o755); err != nil {
		return nil, fmt.Errorf("chunker: create parity dir: %w", err)
	}

	segmentSize := c.cfg.SegmentSize
	numSegments := int((size + segmentSize - 1) / segmentSize)

	segments := make(map[int]manifest.SegmentHashes, numSegments)
	segmentRoots := make([]blockhash.Hash, numSegments)

	for i := 0; i < numSegments; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		offset := int64(i) * segmentSize
		length := segmentSize
		if offset+length > size {
			length = size - offset
		}

		unpadded := make([]byte, length)
		if _, err := f.ReadAt(unpadded, offset); err != nil && err != io.EOF {
			return nil, fmt.Errorf("chunker: read segment %d: %w", i, err)
		}
		padded := padTo(unpadded, segmentSize)

		parity, err := rscodec.Encode([][]byte{padded}, 3)
		if err != nil {
			return nil, fmt.Errorf("chunker: encode segment %d parity: %w", i, err)
		}

		dataHash := blockhash.Sum(unpadded)
		var parityHashes [3]string
		for k, p := range parity {
			parityHashes[k] = blockhash.Sum(p).String()
		}

		if err := os.WriteFile(layout.Tier2SegmentPath(archiveDir, i), unpadded, 0o644); err != nil {
			return nil, fmt.Errorf("chunker: write segment %d: %w", i, err)
		}
		for k, p := range parity {
			if err := os.WriteFile(layout.Tier2ParityPath(archiveDir, i, k), p, 0o644); err != nil {
				return nil, fmt.Errorf("chunker: write segment %d parity %d: %w", i, k, err)
			}
		}

		segments[i] = manifest.SegmentHashes{Data: dataHash.String(), Parity: parityHashes}

		leaves := []blockhash.Hash{dataHash}
		for _, p := range parity {
			leaves = append(leaves, blockhash.Sum(p))
		}
		segTree, err := merkle.Build(leaves)
		if err != nil {
			return nil, fmt.Errorf("chunker: build segment %d mini-tree: %w", i, err)
		}
		segmentRoots[i] = segTree.Root()

		if progress != nil {
			progress(i+1, numSegments)
		}
	}

	fileTree, err := merkle.Build(segmentRoots)
	if err != nil {
		return nil, fmt.Errorf("chunker: build file-level tree: %w", err)
	}

	m := &manifest.Manifest{
		Name:           name,
		Size:           size,
		OriginalHash:   originalHash.String(),
		Tier:           manifest.Tier2,
		SegmentSize:    segmentSize,
		TimeOfCreation: time.Now().UTC(),
		ErasureCoding:  manifest.ErasureCoding{DataShards: 1, ParityShards: 3},
		MerkleTree: manifest.MerkleTree{
			Leaves:   map[int]string{},
			Segments: segments,
			Blocks:   map[int]manifest.BlockHashes{},
			Root:     fileTree.Root().String(),
		},
	}

	if err := writeManifest(archiveDir, m); err != nil {
		return nil, err
	}

	return &CommitResult{ArchivePath: archiveDir, Manifest: m}, nil
}

// commitBlocked writes a per-block RS(30,3) archive: blocks of up to 30
// segments, each independently Reed-Solomon(30,3) encoded and
// Merkle-rooted, processed in parallel via an errgroup bounded to
// Chunker's configured worker count. A sync.Map accumulates each block's
// BlockHashes as goroutines finish, keyed by block index; each block's
// Merkle root goes into its own slot of a shared slice, and progress
// callbacks are serialized under a mutex.
func (c *Chunker) commitBlocked(ctx context.Context, path, name string, size int64, progress ProgressFunc) (*CommitResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunker: open %s: %w", path, err)
	}
	defer f.Close()

	originalHash, err := blockhash.SumReader(f)
	if err != nil {
		return nil, fmt.Errorf("chunker: hash %s: %w", path, err)
	}

	archiveDir := filepath.Join(c.cfg.ArchiveRoot, layout.ArchiveDirName(name, originalHash))

	segmentSize := c.cfg.SegmentSize
	numSegments := int((size + segmentSize - 1) / segmentSize)
	numBlocks := (numSegments + manifest.SegmentsPerBlock - 1) / manifest.SegmentsPerBlock

	// Pre-create every block directory before parallel work starts, to
	// avoid directory-creation races between concurrently running blocks.
	for b := 0; b < numBlocks; b++ {
		if err := os.MkdirAll(layout.Tier3SegmentsDir(archiveDir, b), 0o755); err != nil {
			return nil, fmt.Errorf("chunker: create block %d segments dir: %w", b, err)
		}
		if err := os.MkdirAll(layout.Tier3ParityDir(archiveDir, b), 0o755); err != nil {
			return nil, fmt.Errorf("chunker: create block %d parity dir: %w", b, err)
		}
	}

	zeroSegHash := blockhash.Sum(make([]byte, segmentSize))
	blockRoots := make([]blockhash.Hash, numBlocks)

	var blockHashes sync.Map // int -> manifest.BlockHashes
	var done int
	var progressMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workerCount())

	for b := 0; b < numBlocks; b++ {
		b := b
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			segStart := b * manifest.SegmentsPerBlock
			segCount := manifest.SegmentsPerBlock
			if segStart+segCount > numSegments {
				segCount = numSegments - segStart
			}

			dataShards := make([][]byte, manifest.SegmentsPerBlock)
			segHashes := make([]string, segCount)
			leaves := make([]blockhash.Hash, manifest.SegmentsPerBlock+3)

			for j := 0; j < manifest.SegmentsPerBlock; j++ {
				if j >= segCount {
					dataShards[j] = make([]byte, segmentSize)
					leaves[j] = zeroSegHash
					continue
				}

				globalIdx := segStart + j
				offset := int64(globalIdx) * segmentSize
				length := segmentSize
				if offset+length > size {
					length = size - offset
				}

				buf := make([]byte, segmentSize)
				if _, err := f.ReadAt(buf[:length], offset); err != nil && err != io.EOF {
					return apperrors.NewUnitError(b, fmt.Errorf("read segment %d: %w", globalIdx, err))
				}
				dataShards[j] = buf

				h := blockhash.Sum(buf[:length])
				segHashes[j] = h.String()
				leaves[j] = h

				if err := os.WriteFile(layout.Tier3SegmentPath(archiveDir, b, j), buf[:length], 0o644); err != nil {
					return apperrors.NewUnitError(b, fmt.Errorf("write segment %d: %w", globalIdx, err))
				}
			}

			parity, err := rscodec.Encode(dataShards, 3)
			if err != nil {
				return apperrors.NewUnitError(b, fmt.Errorf("encode block parity: %w", err))
			}

			var parityHashes [3]string
			for k, p := range parity {
				ph := blockhash.Sum(p)
				parityHashes[k] = ph.String()
				leaves[manifest.SegmentsPerBlock+k] = ph
				if err := os.WriteFile(layout.Tier3ParityPath(archiveDir, b, k), p, 0o644); err != nil {
					return apperrors.NewUnitError(b, fmt.Errorf("write parity %d: %w", k, err))
				}
			}

			blockTree, err := merkle.Build(leaves)
			if err != nil {
				return apperrors.NewUnitError(b, fmt.Errorf("build block mini-tree: %w", err))
			}
			blockRoots[b] = blockTree.Root()
			blockHashes.Store(b, manifest.BlockHashes{Segments: segHashes, Parity: parityHashes})

			if progress != nil {
				progressMu.Lock()
				done++
				progress(done, numBlocks)
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("chunker: commit blocked: %w", err)
	}

	blocks := make(map[int]manifest.BlockHashes, numBlocks)
	blockHashes.Range(func(key, value any) bool {
		blocks[key.(int)] = value.(manifest.BlockHashes)
		return true
	})

	fileTree, err := merkle.Build(blockRoots)
	if err != nil {
		return nil, fmt.Errorf("chunker: build file-level tree: %w", err)
	}

	m := &manifest.Manifest{
		Name:           name,
		Size:           size,
		OriginalHash:   originalHash.String(),
		Tier:           manifest.Tier3,
		SegmentSize:    segmentSize,
		TimeOfCreation: time.Now().UTC(),
		ErasureCoding:  manifest.ErasureCoding{DataShards: manifest.SegmentsPerBlock, ParityShards: 3},
		MerkleTree: manifest.MerkleTree{
			Leaves:   map[int]string{},
			Segments: map[int]manifest.SegmentHashes{},
			Blocks:   blocks,
			Root:     fileTree.Root().String(),
		},
	}

	if err := writeManifest(archiveDir, m); err != nil {
		return nil, err
	}

	return &CommitResult{ArchivePath: archiveDir, Manifest: m}, nil
}

// writeManifest serializes m and writes it last, per the "shards before
// manifest" atomicity discipline: a directory with no manifest.json is an
// incomplete commit that discovery silently skips.
func writeManifest(archiveDir string, m *manifest.Manifest) error {
	data, err := m.Serialize()
	if err != nil {
		return fmt.Errorf("chunker: serialize manifest: %w", err)
	}
	if err := os.WriteFile(layout.ManifestPath(archiveDir), data, 0o644); err != nil {
		return fmt.Errorf("chunker: write manifest: %w", err)
	}
	return nil
}
