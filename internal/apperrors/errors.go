// Package apperrors collects the sentinel errors and formatted constructors
// shared across BlockFrame's encoding, manifest, and repair packages.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile is returned when commit is asked to archive a zero-byte file.
	ErrEmptyFile = errors.New("cannot commit an empty file")

	// ErrInsufficientShards is returned by the RS codec when fewer than
	// dataShards valid shards are available to decode a unit.
	ErrInsufficientShards = errors.New("insufficient shards available for reconstruction")

	// ErrShardLengthMismatch is returned when shards handed to the codec are
	// not all the same length.
	ErrShardLengthMismatch = errors.New("shard lengths are not uniform")

	// ErrArchiveAlreadyExists names a commit whose target archive directory
	// already exists. Commit does not return it: committing content that is
	// already archived rewrites that archive's files in place.
	ErrArchiveAlreadyExists = errors.New("archive directory already exists")

	// ErrArchiveNotFound is returned when a named archive cannot be located
	// under the archive root.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrManifestMissing is returned when an archive directory has no
	// manifest.json — it is an incomplete, in-progress, or abandoned commit.
	ErrManifestMissing = errors.New("archive has no manifest")

	// ErrSchemaMismatch is returned when a manifest predates the
	// hierarchical Merkle fields (leaves/segments/blocks) — a breaking,
	// unrecoverable-without-recommit format change.
	ErrSchemaMismatch = errors.New("manifest uses a pre-migration schema and cannot be read")

	// ErrMalformedHash is returned when a hash field is not 64 lowercase
	// hex characters.
	ErrMalformedHash = errors.New("malformed hash: expected 64 lowercase hex characters")

	// ErrNonContiguousIndices is returned when a manifest's tier-appropriate
	// map does not have contiguous indices starting at 0.
	ErrNonContiguousIndices = errors.New("manifest indices are not contiguous from 0")

	// ErrTierEncodingMismatch is returned when erasure_coding does not match
	// the declared tier's expected (data_shards, parity_shards) pair.
	ErrTierEncodingMismatch = errors.New("erasure coding parameters do not match declared tier")

	// ErrUnrecoverable is returned for a unit (segment/block/file) that
	// cannot be repaired with the surviving shards.
	ErrUnrecoverable = errors.New("unit is unrecoverable: too many shards missing or invalid")

	// ErrInvariantViolation is a critical, abort-the-unit error: a
	// recovered shard's hash didn't match the manifest. A health scan also
	// reports it for any unit whose on-disk shards fail verification.
	ErrInvariantViolation = errors.New("invariant violation during repair")

	// ErrReconstructionHashMismatch indicates the file assembled from
	// on-disk segments does not hash to original_hash.
	ErrReconstructionHashMismatch = errors.New("reconstructed file does not match original hash")
)

// ConfigNotSetError reports a required configuration value that was never set.
func ConfigNotSetError(name string) error {
	return fmt.Errorf("the %s configuration value must be set", name)
}

// UnitError wraps an error with the block or segment index it occurred on,
// used to build per-unit RepairReport entries.
type UnitError struct {
	Unit int
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %d: %v", e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// NewUnitError wraps err with the unit index it pertains to.
func NewUnitError(unit int, err error) error {
	if err == nil {
		return nil
	}
	return &UnitError{Unit: unit, Err: err}
}
