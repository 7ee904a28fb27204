package rifthash

// generateCache builds the cache for a given seed and cache size (§4.3):
// a keccak512 hash chain seeds n nodes, then CacheRounds passes of
// RandMemoHash fold each node against a pseudo-randomly selected sibling.
// Rounds cannot overlap — round r+1 reads round r's values — so this runs
// sequentially; only the materializer downstream of the cache is
// parallelized.
func generateCache(seed Hash, cacheSize uint64) []Node {
	n := int(cacheSize / HashBytes)
	if n == 0 {
		return nil
	}
	cache := make([]Node, n)

	h512 := newKeccak512()
	h512(cache[0][:], seed[:])
	for i := 1; i < n; i++ {
		h512(cache[i][:], cache[i-1][:])
	}

	var tmp Node
	for round := 0; round < CacheRounds; round++ {
		for i := 0; i < n; i++ {
			srcIdx := (i - 1 + n) % n
			v := cache[i].Word32(0) % uint32(n)
			tmp = cache[srcIdx]
			tmp.XorInto(&cache[v])
			h512(cache[i][:], tmp[:])
		}
	}
	return cache
}
