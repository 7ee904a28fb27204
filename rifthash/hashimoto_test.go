package rifthash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashimotoRejectsMisalignedFullSize(t *testing.T) {
	rv := hashimoto(MixBytes+1, Hash{}, 0, func(uint32) Node { return Node{} })
	require.False(t, rv.Success)
}

func TestHashimotoDeterministic(t *testing.T) {
	var seed Hash
	cache := generateCache(seed, 256*HashBytes)
	fullSize := uint64(32) * MixBytes

	lookup := func(index uint32) Node { return calcDatasetItem(cache, index) }

	var header Hash
	for i := range header {
		header[i] = 0xFF
	}

	a := hashimoto(fullSize, header, 0, lookup)
	b := hashimoto(fullSize, header, 0, lookup)
	require.True(t, a.Success)
	require.Equal(t, a.Result, b.Result)
	require.Equal(t, a.MixHash, b.MixHash)
}

func TestHashimotoVariesByNonce(t *testing.T) {
	var seed Hash
	cache := generateCache(seed, 256*HashBytes)
	fullSize := uint64(32) * MixBytes
	lookup := func(index uint32) Node { return calcDatasetItem(cache, index) }

	var header Hash
	a := hashimoto(fullSize, header, 0, lookup)
	b := hashimoto(fullSize, header, 1, lookup)
	require.NotEqual(t, a.Result, b.Result)
}
