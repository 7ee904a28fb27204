package rifthash

// calcDatasetItem derives one 512-bit dataset node from the cache (§4.4):
// seed from the cache entry at index%n, keccak512, then fold in
// DatasetParents pseudo-randomly chosen cache parents via fnv, and
// keccak512 once more. Pure function of (cache, index); safe to call
// concurrently for disjoint indices from multiple goroutines since it only
// reads the cache.
func calcDatasetItem(cache []Node, index uint32) Node {
	n := uint32(len(cache))

	mix := cache[index%n]
	mixWords := mix.Words()
	mixWords[0] ^= index
	mix.SetWords(mixWords)

	h512 := newKeccak512()
	h512(mix[:], mix[:])
	mixWords = mix.Words()

	for p := uint32(0); p < DatasetParents; p++ {
		parentIndex := fnv(index^p, mixWords[p%16]) % n
		parent := cache[parentIndex].Words()
		for w := 0; w < 16; w++ {
			mixWords[w] = fnv(mixWords[w], parent[w])
		}
	}
	mix.SetWords(mixWords)
	h512(mix[:], mix[:])
	return mix
}
