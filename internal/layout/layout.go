// Package layout names the on-disk paths of a BlockFrame archive directory,
// shared between the chunker (which writes them) and the filestore (which
// reads and repairs them) so the two packages can never drift out of sync
// on where a shard lives.
//
// Grounded on the directory-layout discipline of
// kk-code-lab-seglake's internal/storage engine.go (ensureDirs,
// writeManifestFile writing the manifest strictly last) generalized from
// its single flat segment directory to BlockFrame's three tier-specific
// layouts.
package layout

import (
	"fmt"
	"path/filepath"

	"github.com/crushr3sist/blockframe/internal/blockhash"
)

// ManifestFileName is the name of the manifest written last in every commit.
const ManifestFileName = "manifest.json"

// ArchiveDirName builds the {name}_{hash} directory name every archive uses.
func ArchiveDirName(name string, fileHash blockhash.Hash) string {
	return fmt.Sprintf("%s_%s", name, fileHash.String())
}

// ManifestPath returns the path to an archive's manifest.json.
func ManifestPath(archiveDir string) string {
	return filepath.Join(archiveDir, ManifestFileName)
}

// Tier1DataPath returns the path to the tier-1 whole-file data shard.
func Tier1DataPath(archiveDir string) string {
	return filepath.Join(archiveDir, "data.dat")
}

// Tier1ParityPath returns the path to the k-th tier-1 parity shard.
func Tier1ParityPath(archiveDir string, k int) string {
	return filepath.Join(archiveDir, fmt.Sprintf("parity_%d.dat", k))
}

// Tier2SegmentsDir returns the directory holding tier-2 segment files.
func Tier2SegmentsDir(archiveDir string) string {
	return filepath.Join(archiveDir, "segments")
}

// Tier2ParityDir returns the directory holding tier-2 parity files.
func Tier2ParityDir(archiveDir string) string {
	return filepath.Join(archiveDir, "parity")
}

// Tier2SegmentPath returns the path to segment i's data file.
func Tier2SegmentPath(archiveDir string, i int) string {
	return filepath.Join(Tier2SegmentsDir(archiveDir), fmt.Sprintf("segment_%d.dat", i))
}

// Tier2ParityPath returns the path to segment i's k-th parity file.
func Tier2ParityPath(archiveDir string, i, k int) string {
	return filepath.Join(Tier2ParityDir(archiveDir), fmt.Sprintf("segment_%d_parity_%d.dat", i, k))
}

// Tier3BlockDir returns the root directory for block b.
func Tier3BlockDir(archiveDir string, b int) string {
	return filepath.Join(archiveDir, "blocks", fmt.Sprintf("block_%d", b))
}

// Tier3SegmentsDir returns the segments subdirectory of block b.
func Tier3SegmentsDir(archiveDir string, b int) string {
	return filepath.Join(Tier3BlockDir(archiveDir, b), "segments")
}

// Tier3ParityDir returns the parity subdirectory of block b.
func Tier3ParityDir(archiveDir string, b int) string {
	return filepath.Join(Tier3BlockDir(archiveDir, b), "parity")
}

// Tier3SegmentPath returns the path to segment j of block b.
func Tier3SegmentPath(archiveDir string, b, j int) string {
	return filepath.Join(Tier3SegmentsDir(archiveDir, b), fmt.Sprintf("segment_%d.dat", j))
}

// Tier3ParityPath returns the path to the k-th parity file of block b.
func Tier3ParityPath(archiveDir string, b, k int) string {
	return filepath.Join(Tier3ParityDir(archiveDir, b), fmt.Sprintf("parity_%d.dat", k))
}
