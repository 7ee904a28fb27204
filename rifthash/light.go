package rifthash

import "fmt"

// Light is a light-client handle: it owns only the cache and derives
// dataset items on demand (§4.7). Compute does not modify it, so a *Light
// is safe to share for concurrent Compute calls. NewFull drops the cache of
// the handle it is given; Compute on that handle afterwards panics.
type Light struct {
	blockNumber uint64
	cacheSize   uint64
	fullSize    uint64
	cache       []Node
}

// NewLight resolves the cache/dataset parameters for blockNumber and
// builds the cache. Returns ErrNoMemory if the cache cannot be allocated.
func NewLight(blockNumber uint64) (*Light, error) {
	seed := SeedHash(blockNumber)
	cacheSize := CacheSize(blockNumber)
	fullSize := DatasetSize(blockNumber)
	return newLightWithParams(blockNumber, seed, cacheSize, fullSize)
}

// newLightWithParams is the internal constructor used by tests that want
// deterministic, tiny parameters without routing through the epoch/block
// number arithmetic (mirrors rifthash_light_new_internal in the original
// C header).
func newLightWithParams(blockNumber uint64, seed Hash, cacheSize, fullSize uint64) (*Light, error) {
	if cacheSize == 0 || cacheSize%HashBytes != 0 {
		return nil, fmt.Errorf("%w: cache size %d not a multiple of %d", ErrInvalid, cacheSize, HashBytes)
	}
	cache := generateCache(seed, cacheSize)
	if cache == nil {
		return nil, fmt.Errorf("%w: cache allocation", ErrNoMemory)
	}
	return &Light{
		blockNumber: blockNumber,
		cacheSize:   cacheSize,
		fullSize:    fullSize,
		cache:       cache,
	}, nil
}

// Compute runs hashimoto against on-demand dataset items derived from the
// cache (§4.7 light_compute).
func (l *Light) Compute(headerHash Hash, nonce uint64) ReturnValue {
	globalHashrate.mark()
	return hashimoto(l.fullSize, headerHash, nonce, func(index uint32) Node {
		return calcDatasetItem(l.cache, index)
	})
}

// CacheSize returns the byte size of the owned cache.
func (l *Light) CacheSize() uint64 { return l.cacheSize }

// FullSize returns the dataset size the light handle's epoch corresponds
// to — the size a matching Full handle for the same block would build.
func (l *Light) FullSize() uint64 { return l.fullSize }

// BlockNumber returns the block number the handle was constructed for.
func (l *Light) BlockNumber() uint64 { return l.blockNumber }
