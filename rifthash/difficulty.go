package rifthash

import (
	"encoding/binary"

	"github.com/holiman/uint256"
)

// CheckDifficulty reports whether hash, read as a big-endian 256-bit
// integer, is at most boundary (§4.8). Both are compared via uint256
// rather than a hand-rolled byte loop, matching how the teacher's own
// consensus package already reaches for holiman/uint256 for 256-bit
// arithmetic elsewhere in the same engine.
func CheckDifficulty(hash, boundary Hash) bool {
	h := new(uint256.Int).SetBytes32(hash[:])
	b := new(uint256.Int).SetBytes32(boundary[:])
	return h.Cmp(b) <= 0
}

// QuickCheckDifficulty performs the dataset-free pre-check (§4.8): it
// recomputes only the hashimoto seed and folds in the caller-supplied
// mix_hash, without touching the cache or dataset. Used by validators
// that want to reject obviously-wrong headers before paying for a full
// verification.
func QuickCheckDifficulty(headerHash Hash, nonce uint64, mixHash, boundary Hash) bool {
	var nonceLE [8]byte
	binary.LittleEndian.PutUint64(nonceLE[:], nonce)
	seed := keccak512(headerHash[:], nonceLE[:])
	quick := Hash(keccak256(seed[:], mixHash[:]))
	return CheckDifficulty(quick, boundary)
}
