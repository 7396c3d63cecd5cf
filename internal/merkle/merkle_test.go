package merkle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crushr3sist/blockframe/internal/blockhash"
	"github.com/crushr3sist/blockframe/internal/merkle"
)

func leavesOf(n int) []blockhash.Hash {
	out := make([]blockhash.Hash, n)
	for i := range out {
		out[i] = blockhash.Sum([]byte{byte(i)})
	}
	return out
}

func TestBuild_SingleLeafTreeRootEqualsLeaf(t *testing.T) {
	leaves := leavesOf(1)

	tree, err := merkle.Build(leaves)
	require.NoError(t, err)

	assert.Equal(t, leaves[0], tree.Root())
	assert.Equal(t, 1, tree.LeafCount())
}

func TestBuild_RejectsEmptyLeafSet(t *testing.T) {
	_, err := merkle.Build(nil)
	assert.Error(t, err)
}

func TestBuild_OddLeafCountDuplicatesLast(t *testing.T) {
	leaves := leavesOf(3)

	tree, err := merkle.Build(leaves)
	require.NoError(t, err)

	assert.Equal(t, 3, tree.LeafCount())
	assert.NotEqual(t, blockhash.Hash{}, tree.Root())
}

func TestProofAndVerify_RoundTripAllLeaves(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 33} {
		leaves := leavesOf(n)
		tree, err := merkle.Build(leaves)
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			proof, err := tree.Proof(i)
			require.NoError(t, err)

			ok := merkle.Verify(leaves[i], proof, i, tree.Root())
			assert.Truef(t, ok, "leaf %d of %d failed to verify", i, n)
		}
	}
}

func TestVerify_FailsOnWrongLeaf(t *testing.T) {
	leaves := leavesOf(4)
	tree, err := merkle.Build(leaves)
	require.NoError(t, err)

	proof, err := tree.Proof(0)
	require.NoError(t, err)

	wrong := blockhash.Sum([]byte("not the real leaf"))
	assert.False(t, merkle.Verify(wrong, proof, 0, tree.Root()))
}

func TestProof_RejectsOutOfRangeIndex(t *testing.T) {
	tree, err := merkle.Build(leavesOf(4))
	require.NoError(t, err)

	_, err = tree.Proof(99)
	assert.Error(t, err)

	_, err = tree.Proof(-1)
	assert.Error(t, err)
}

func TestBuild_DeterministicAcrossCalls(t *testing.T) {
	leaves := leavesOf(7)

	t1, err := merkle.Build(leaves)
	require.NoError(t, err)
	t2, err := merkle.Build(leaves)
	require.NoError(t, err)

	assert.Equal(t, t1.Root(), t2.Root())
}
