package rifthash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedHashEpoch0(t *testing.T) {
	var want Hash
	require.Equal(t, want, SeedHash(0), "epoch 0 seed must be 32 zero bytes")
}

func TestSeedHashEpochBoundary(t *testing.T) {
	s29999 := SeedHash(29999)
	s30000 := SeedHash(30000)
	require.NotEqual(t, s29999, s30000, "crossing an epoch boundary must change the seed")

	var zero Hash
	require.Equal(t, Hash(keccak256(zero[:])), s30000, "epoch 1 seed is keccak256 of the zero seed")
}

func TestCacheAndDatasetSizeScenario(t *testing.T) {
	require.Equal(t, uint64(16776896), CacheSize(0))
	require.Equal(t, uint64(1073739904), DatasetSize(0))
}

func TestCacheAndDatasetSizeInvariants(t *testing.T) {
	for _, block := range []uint64{0, 1, 29999, 30000, 60000, 12345678} {
		cacheSize := CacheSize(block)
		fullSize := DatasetSize(block)

		require.Zero(t, cacheSize%HashBytes, "cache size must be a multiple of HashBytes at block %d", block)
		require.Zero(t, fullSize%MixBytes, "dataset size must be a multiple of MixBytes at block %d", block)
		require.True(t, isPrime(cacheSize/HashBytes), "cache node count must be prime at block %d", block)
		require.True(t, isPrime(fullSize/MixBytes), "dataset item-pair count must be prime at block %d", block)
	}
}

func TestEpoch(t *testing.T) {
	require.Equal(t, uint64(0), Epoch(0))
	require.Equal(t, uint64(0), Epoch(29999))
	require.Equal(t, uint64(1), Epoch(30000))
}

func TestIsPrime(t *testing.T) {
	primes := []uint64{2, 3, 5, 7, 11, 13, 104729}
	for _, p := range primes {
		require.True(t, isPrime(p), "%d should be prime", p)
	}
	composites := []uint64{0, 1, 4, 6, 8, 9, 104728}
	for _, c := range composites {
		require.False(t, isPrime(c), "%d should not be prime", c)
	}
}
