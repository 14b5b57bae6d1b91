package protocol

import "io"

// BitSet is a VarInt-length-prefixed array of big-endian 64-bit words, bit i
// stored at word i/64, position i%64.
type BitSet struct {
	words []uint64
}

// NewBitSet creates a BitSet capable of holding at least numBits bits.
func NewBitSet(numBits int) *BitSet {
	return &BitSet{words: make([]uint64, (numBits+63)/64)}
}

// Set marks bit i.
func (b *BitSet) Set(i int) {
	word := i / 64
	for word >= len(b.words) {
		b.words = append(b.words, 0)
	}
	b.words[word] |= 1 << uint(i%64)
}

// Get reports whether bit i is set.
func (b *BitSet) Get(i int) bool {
	word := i / 64
	if word >= len(b.words) {
		return false
	}
	return b.words[word]&(1<<uint(i%64)) != 0
}

// Len returns the number of set bits.
func (b *BitSet) Len() int {
	n := 0
	for _, w := range b.words {
		for w != 0 {
			n++
			w &= w - 1
		}
	}
	return n
}

// WriteBitSet writes a BitSet's word array with its VarInt length prefix.
func WriteBitSet(w io.Writer, b *BitSet) error {
	if _, err := WriteVarInt(w, int32(len(b.words))); err != nil {
		return err
	}
	for _, word := range b.words {
		if err := WriteInt64(w, int64(word)); err != nil {
			return err
		}
	}
	return nil
}

// ReadBitSet reads a VarInt-length-prefixed array of 64-bit words.
func ReadBitSet(r io.Reader) (*BitSet, error) {
	n, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	words := make([]uint64, n)
	for i := range words {
		v, err := ReadInt64(r)
		if err != nil {
			return nil, err
		}
		words[i] = uint64(v)
	}
	return &BitSet{words: words}, nil
}
