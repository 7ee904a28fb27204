package rifthash

import "encoding/hex"

// Hash is a 256-bit value, byte-addressable and big-endian in external
// framing (§3 data model "h256"). Mirrors the accessor-style API of the
// original C header's rifthash_h256_get/rifthash_h256_set.
type Hash [32]byte

// At returns the i'th byte, most-significant first.
func (h Hash) At(i int) byte { return h[i] }

// Set overwrites the i'th byte, most-significant first.
func (h *Hash) Set(i int, v byte) { h[i] = v }

// Bytes returns the hash's big-endian byte representation.
func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// BytesToHash copies b (which must be at most 32 bytes) into a Hash,
// left-padding with zeros.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(h[32-len(b):], b)
	return h
}
