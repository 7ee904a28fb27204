package rifthash

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// hasher is a repetitive hash function: reusable sponge state avoids an
// allocation on every call, the same trick the wider corpus uses (see
// sudaoxyz-SuChain's consensus/ethash/algorithm.go makeHasher). Not safe
// for concurrent use; callers each get their own via newKeccak256/512.
type hasher func(dest, data []byte)

func makeHasher(h hash.Hash) hasher {
	type readerHash interface {
		hash.Hash
		Read([]byte) (int, error)
	}
	rh, ok := h.(readerHash)
	if !ok {
		panic("rifthash: sha3 state does not implement io.Reader")
	}
	outputLen := rh.Size()
	return func(dest, data []byte) {
		rh.Reset()
		rh.Write(data)
		rh.Read(dest[:outputLen])
	}
}

func newKeccak256() hasher { return makeHasher(sha3.NewLegacyKeccak256()) }
func newKeccak512() hasher { return makeHasher(sha3.NewLegacyKeccak512()) }

// keccak256 hashes data in one shot, allocating a fresh sponge. Used for
// the final result hash in hashimoto and in QuickCheckDifficulty; SeedHash
// uses the reusable newKeccak256 hasher instead.
func keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// keccak512 hashes data in one shot, returning the full 64-byte digest as a
// Node.
func keccak512(data ...[]byte) Node {
	h := sha3.NewLegacyKeccak512()
	for _, d := range data {
		h.Write(d)
	}
	var out Node
	copy(out[:], h.Sum(nil))
	return out
}
