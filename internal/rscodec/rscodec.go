// Package rscodec wraps github.com/klauspost/reedsolomon behind the
// positional shard contract BlockFrame's chunker and filestore packages
// share: callers always pad their own shards to a uniform length and track
// which positions are missing with nil entries.
//
// This is a thinner contract than reedsolomon.Encoder's own Split/Join
// convenience methods (used directly in erasure_coding_service.go) because
// BlockFrame needs to decode shards that were read back from independent
// files on disk, not from one contiguous buffer — there is no single
// []byte to Split, and no io.Writer to Join
// into; the caller already knows segment_size and reassembles bytes itself.
package rscodec

import (
	"fmt"

	"github.com/klauspost/reedsolomon"

	"github.com/crushr3sist/blockframe/internal/apperrors"
)

// Encode runs Reed-Solomon encoding over dataShards (which must all be the
// same length) and returns exactly parityCount new parity shards of that
// same length.
func Encode(dataShards [][]byte, parityCount int) ([][]byte, error) {
	if len(dataShards) == 0 {
		return nil, fmt.Errorf("rscodec: encode: no data shards supplied")
	}
	shardLen := len(dataShards[0])
	for i, s := range dataShards {
		if len(s) != shardLen {
			return nil, fmt.Errorf("rscodec: encode: %w (shard %d is %d bytes, want %d)",
				apperrors.ErrShardLengthMismatch, i, len(s), shardLen)
		}
	}

	enc, err := reedsolomon.New(len(dataShards), parityCount)
	if err != nil {
		return nil, fmt.Errorf("rscodec: new encoder: %w", err)
	}

	all := make([][]byte, len(dataShards)+parityCount)
	copy(all, dataShards)
	for i := len(dataShards); i < len(all); i++ {
		all[i] = make([]byte, shardLen)
	}

	if err := enc.Encode(all); err != nil {
		return nil, fmt.Errorf("rscodec: encode: %w", err)
	}

	return all[len(dataShards):], nil
}

// Decode takes a positionally-ordered slice of shards (data shards first,
// then parity shards) where a nil entry marks a missing or untrusted shard,
// and returns the full set of data shards with any missing ones recovered.
//
// Decode mutates neither the caller's slice headers nor its shard contents
// in a way the caller can observe — it operates on an internal copy — but
// it does require at least dataCount of the dataCount+parityCount entries
// to be non-nil, or it fails with ErrInsufficientShards.
func Decode(shards []*[]byte, dataCount, parityCount int) ([][]byte, error) {
	if len(shards) != dataCount+parityCount {
		return nil, fmt.Errorf("rscodec: decode: got %d shards, want %d (%d data + %d parity)",
			len(shards), dataCount+parityCount, dataCount, parityCount)
	}

	present := 0
	shardLen := 0
	working := make([][]byte, len(shards))
	for i, s := range shards {
		if s == nil || *s == nil {
			continue
		}
		present++
		working[i] = *s
		if shardLen == 0 {
			shardLen = len(*s)
		} else if len(*s) != shardLen {
			return nil, fmt.Errorf("rscodec: decode: %w (shard %d is %d bytes, want %d)",
				apperrors.ErrShardLengthMismatch, i, len(*s), shardLen)
		}
	}
	if present < dataCount {
		return nil, fmt.Errorf("rscodec: decode: %w (have %d, need %d)",
			apperrors.ErrInsufficientShards, present, dataCount)
	}

	enc, err := reedsolomon.New(dataCount, parityCount)
	if err != nil {
		return nil, fmt.Errorf("rscodec: new decoder: %w", err)
	}

	if err := enc.Reconstruct(working); err != nil {
		return nil, fmt.Errorf("rscodec: reconstruct: %w", err)
	}

	return working[:dataCount], nil
}
