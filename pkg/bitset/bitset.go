// Package bitset implements a growable bit vector backed by 32-bit words,
// laid out for direct upload to GPU storage buffers.
package bitset

import (
	"errors"
	"math/bits"
)

// WordBits is the number of bits per backing word.
const WordBits = 32

// ErrOutOfRange is returned by Get for an index that was never grown into.
var ErrOutOfRange = errors.New("bitset: index out of range")

// BitSet is a growable bit vector. The zero value is an empty set.
// It is not safe for concurrent use.
type BitSet struct {
	size uint
	data []uint32
}

// New returns an empty BitSet.
func New() *BitSet {
	return &BitSet{}
}

// FromWords returns a BitSet that takes ownership of words.
func FromWords(words []uint32) *BitSet {
	return &BitSet{size: uint(len(words)) * WordBits, data: words}
}

// Len returns the bit capacity. It is always a multiple of WordBits.
func (b *BitSet) Len() uint {
	return b.size
}

// Words returns the backing word array. Bit i lives in word i/32 at
// position i%32.
func (b *BitSet) Words() []uint32 {
	return b.data
}

// Insert sets bit index to value, growing the set so index is addressable,
// and returns the previous value.
func (b *BitSet) Insert(index uint, value bool) bool {
	if index >= b.size {
		words := int(index/WordBits) + 1
		b.data = append(b.data, make([]uint32, words-len(b.data))...)
		b.size = uint(len(b.data)) * WordBits
	}

	word, mask := index/WordBits, uint32(1)<<(index%WordBits)
	previous := b.data[word]&mask != 0

	if value {
		b.data[word] |= mask
	} else {
		b.data[word] &^= mask
	}
	return previous
}

// Get returns bit index, or ErrOutOfRange if the set never grew that far.
func (b *BitSet) Get(index uint) (bool, error) {
	if index >= b.size {
		return false, ErrOutOfRange
	}
	return b.data[index/WordBits]&(1<<(index%WordBits)) != 0, nil
}

// Test returns bit index, treating unaddressable bits as false.
func (b *BitSet) Test(index uint) bool {
	v, _ := b.Get(index)
	return v
}

// Count returns the number of set bits.
func (b *BitSet) Count() int {
	n := 0
	for _, w := range b.data {
		n += bits.OnesCount32(w)
	}
	return n
}
