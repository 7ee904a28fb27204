package rifthash

import "encoding/binary"

// hashBytes is the width of a single cache/dataset entry: 512 bits.
const hashBytes = 64

// Node is a 512-bit value addressable as 64 bytes or 16 little-endian
// 32-bit words. All internal mixing operates on the word view; the byte
// view is used only for hashing and file I/O. Deliberately a plain byte
// array rather than a union, so there is no pointer-aliasing trick to get
// wrong across platforms (see the node.go entry in DESIGN.md).
type Node [hashBytes]byte

// Words returns the node's 16 little-endian 32-bit words.
func (n *Node) Words() [16]uint32 {
	var w [16]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(n[i*4 : i*4+4])
	}
	return w
}

// SetWords overwrites the node from 16 little-endian 32-bit words.
func (n *Node) SetWords(w [16]uint32) {
	for i, v := range w {
		binary.LittleEndian.PutUint32(n[i*4:i*4+4], v)
	}
}

// Word32 returns the i'th little-endian 32-bit word without building the
// full array, used by the cache builder's RandMemoHash rounds.
func (n *Node) Word32(i int) uint32 {
	return binary.LittleEndian.Uint32(n[i*4 : i*4+4])
}

// XorInto XORs every word of other into n, word-wise, as used by
// RandMemoHash (spec §4.3 step 3).
func (n *Node) XorInto(other *Node) {
	for i := 0; i < hashBytes; i++ {
		n[i] ^= other[i]
	}
}
