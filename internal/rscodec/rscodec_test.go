package rscodec_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushr3sist/blockframe/internal/apperrors"
	"github.com/crushr3sist/blockframe/internal/rscodec"
)

func makeShards(n, size int, fill byte) [][]byte {
	shards := make([][]byte, n)
	for i := range shards {
		shards[i] = bytes.Repeat([]byte{fill + byte(i)}, size)
	}
	return shards
}

func TestEncode_ProducesParityCount(t *testing.T) {
	data := makeShards(4, 64, 1)

	parity, err := rscodec.Encode(data, 2)
	require.NoError(t, err)
	assert.Len(t, parity, 2)
	for _, p := range parity {
		assert.Len(t, p, 64)
	}
}

func TestEncode_RejectsUnevenShards(t *testing.T) {
	data := [][]byte{
		bytes.Repeat([]byte{1}, 64),
		bytes.Repeat([]byte{2}, 32),
	}

	_, err := rscodec.Encode(data, 2)
	assert.ErrorIs(t, err, apperrors.ErrShardLengthMismatch)
}

func TestDecode_RoundTripWithAllShardsPresent(t *testing.T) {
	data := makeShards(4, 64, 10)

	parity, err := rscodec.Encode(data, 2)
	require.NoError(t, err)

	all := append(append([][]byte{}, data...), parity...)
	ptrs := make([]*[]byte, len(all))
	for i := range all {
		ptrs[i] = &all[i]
	}

	recovered, err := rscodec.Decode(ptrs, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, data, recovered)
}

func TestDecode_RecoversFromMissingDataShard(t *testing.T) {
	data := makeShards(4, 64, 20)

	parity, err := rscodec.Encode(data, 2)
	require.NoError(t, err)

	all := append(append([][]byte{}, data...), parity...)
	ptrs := make([]*[]byte, len(all))
	for i := range all {
		ptrs[i] = &all[i]
	}
	ptrs[1] = nil
	ptrs[3] = nil

	recovered, err := rscodec.Decode(ptrs, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, data, recovered)
}

func TestDecode_FailsWithTooFewShards(t *testing.T) {
	data := makeShards(4, 64, 30)

	parity, err := rscodec.Encode(data, 2)
	require.NoError(t, err)

	all := append(append([][]byte{}, data...), parity...)
	ptrs := make([]*[]byte, len(all))
	for i := range all {
		ptrs[i] = &all[i]
	}
	ptrs[0] = nil
	ptrs[1] = nil
	ptrs[2] = nil

	_, err = rscodec.Decode(ptrs, 4, 2)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientShards)
}

func TestDecode_RejectsWrongShardCount(t *testing.T) {
	ptrs := make([]*[]byte, 3)
	_, err := rscodec.Decode(ptrs, 4, 2)
	assert.Error(t, err)
}
