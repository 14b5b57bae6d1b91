package protocol

import "io"

// CeilLog2 returns the smallest n such that 2^n >= v (v > 0).
func CeilLog2(v int) int {
	if v <= 1 {
		return 0
	}
	n := 0
	for (1 << uint(n)) < v {
		n++
	}
	return n
}

// PackIndices bit-packs numEntries indices at bitsPerEntry bits each into a
// sequence of 64-bit words, entries-per-word = floor(64/bitsPerEntry), each
// entry placed starting from the least-significant bits and never split
// across a word boundary.
func PackIndices(indices []int32, bitsPerEntry int) []uint64 {
	perWord := 64 / bitsPerEntry
	numWords := (len(indices) + perWord - 1) / perWord
	words := make([]uint64, numWords)
	mask := uint64(1)<<uint(bitsPerEntry) - 1
	for i, v := range indices {
		word := i / perWord
		offset := uint(i%perWord) * uint(bitsPerEntry)
		words[word] |= (uint64(v) & mask) << offset
	}
	return words
}

// UnpackIndices reverses PackIndices, recovering numEntries indices.
func UnpackIndices(words []uint64, bitsPerEntry, numEntries int) []int32 {
	perWord := 64 / bitsPerEntry
	mask := uint64(1)<<uint(bitsPerEntry) - 1
	out := make([]int32, numEntries)
	for i := range out {
		word := i / perWord
		offset := uint(i%perWord) * uint(bitsPerEntry)
		out[i] = int32((words[word] >> offset) & mask)
	}
	return out
}

// WriteSingleValuedContainer writes the single-valued paletted container
// encoding: bitsPerEntry byte 0, one VarInt palette id, no data array.
func WriteSingleValuedContainer(w io.Writer, value int32) error {
	if err := WriteUnsignedByte(w, 0); err != nil {
		return err
	}
	_, err := WriteVarInt(w, value)
	return err
}

// WriteIndirectContainer writes the indirect paletted container encoding:
// bitsPerEntry byte, VarInt-length palette array, then the bit-packed index
// array (its word count is implicit from bitsPerEntry and len(indices), not
// written on the wire).
func WriteIndirectContainer(w io.Writer, bitsPerEntry byte, palette []int32, indices []int32) error {
	if err := WriteUnsignedByte(w, bitsPerEntry); err != nil {
		return err
	}
	if _, err := WriteVarInt(w, int32(len(palette))); err != nil {
		return err
	}
	for _, id := range palette {
		if _, err := WriteVarInt(w, id); err != nil {
			return err
		}
	}
	words := PackIndices(indices, int(bitsPerEntry))
	for _, word := range words {
		if err := WriteInt64(w, int64(word)); err != nil {
			return err
		}
	}
	return nil
}

// ReadPalettedContainer reads either encoding, given the container's known
// entry count (4096 for blocks, 64 for biomes).
func ReadPalettedContainer(r io.Reader, numEntries int) (bitsPerEntry byte, palette []int32, indices []int32, err error) {
	bitsPerEntry, err = ReadUnsignedByte(r)
	if err != nil {
		return 0, nil, nil, err
	}
	if bitsPerEntry == 0 {
		v, _, err := ReadVarInt(r)
		if err != nil {
			return 0, nil, nil, err
		}
		palette = []int32{v}
		indices = make([]int32, numEntries)
		return 0, palette, indices, nil
	}

	paletteLen, _, err := ReadVarInt(r)
	if err != nil {
		return 0, nil, nil, err
	}
	palette = make([]int32, paletteLen)
	for i := range palette {
		v, _, err := ReadVarInt(r)
		if err != nil {
			return 0, nil, nil, err
		}
		palette[i] = v
	}

	perWord := 64 / int(bitsPerEntry)
	numWords := (numEntries + perWord - 1) / perWord
	words := make([]uint64, numWords)
	for i := range words {
		v, err := ReadInt64(r)
		if err != nil {
			return 0, nil, nil, err
		}
		words[i] = uint64(v)
	}
	indices = UnpackIndices(words, int(bitsPerEntry), numEntries)
	return bitsPerEntry, palette, indices, nil
}
