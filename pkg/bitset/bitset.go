// Package bitset provides a fixed-capacity bit vector used to select
// subsets of rows from a cell collection.
package bitset

import "math/bits"

const wordBits = 64

// Bitset is a fixed-capacity vector of bits packed into uint64 words.
// Bit i corresponds to row i of the collection being filtered.
type Bitset struct {
	words []uint64
	n     int
}

// New creates a bitset with capacity for n bits, all clear.
func New(n int) *Bitset {
	return &Bitset{
		words: make([]uint64, (n+wordBits-1)/wordBits),
		n:     n,
	}
}

// Len returns the capacity of the bitset in bits.
func (b *Bitset) Len() int { return b.n }

// Set sets bit i. Out-of-range indices are ignored.
func (b *Bitset) Set(i int) {
	if i < 0 || i >= b.n {
		return
	}
	b.words[i/wordBits] |= 1 << (i % wordBits)
}

// Test reports whether bit i is set.
func (b *Bitset) Test(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	total := 0
	for _, w := range b.words {
		total += bits.OnesCount64(w)
	}
	return total
}
