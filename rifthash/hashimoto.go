package rifthash

import "encoding/binary"

// ReturnValue is the output of a hashimoto run: the folded mix digest and
// the final result hash, with a success flag so callers can distinguish a
// completed-but-uninteresting hash from an internal failure (§3 data
// model, §7 error policy: compute entry points never surface a partial
// result).
type ReturnValue struct {
	Result  Hash
	MixHash Hash
	Success bool
}

// lookupFunc fetches the dataset node at index, either by recomputing it
// from the cache (light path) or reading it out of the mapped DAG (full
// path).
type lookupFunc func(index uint32) Node

// hashimoto runs the mixing loop shared by the light and full compute
// paths (§4.6). fullSize must be the dataset size in bytes for the epoch
// header/nonce belong to; lookup must be able to answer any index in
// [0, fullSize/HashBytes).
func hashimoto(fullSize uint64, headerHash Hash, nonce uint64, lookup lookupFunc) ReturnValue {
	if fullSize == 0 || fullSize%MixBytes != 0 {
		return ReturnValue{}
	}

	var nonceLE [8]byte
	binary.LittleEndian.PutUint64(nonceLE[:], nonce)
	seed := keccak512(headerHash[:], nonceLE[:])
	seedWords := seed.Words()

	const mixWordCount = MixBytes / 4 // 32
	var mix [mixWordCount]uint32
	for i := 0; i < mixWordCount; i++ {
		mix[i] = seedWords[i%16]
	}

	numItems := fullSize / MixBytes
	for a := uint32(0); a < Accesses; a++ {
		p := fnv(a^seedWords[0], mix[a%mixWordCount]) % uint32(numItems)

		lo := lookup(2 * p)
		hi := lookup(2*p + 1)
		loWords, hiWords := lo.Words(), hi.Words()
		for w := 0; w < 16; w++ {
			mix[w] = fnv(mix[w], loWords[w])
			mix[16+w] = fnv(mix[16+w], hiWords[w])
		}
	}

	var cmix [8]uint32
	for i := 0; i < 8; i++ {
		cmix[i] = fnv(fnv(fnv(mix[4*i], mix[4*i+1]), mix[4*i+2]), mix[4*i+3])
	}

	var mixHash Hash
	for i, w := range cmix {
		binary.LittleEndian.PutUint32(mixHash[i*4:i*4+4], w)
	}

	result := Hash(keccak256(seed[:], mixHash[:]))
	return ReturnValue{Result: result, MixHash: mixHash, Success: true}
}
