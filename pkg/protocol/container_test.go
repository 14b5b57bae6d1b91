package protocol

import (
	"bytes"
	"testing"
)

func TestPackedIndicesRoundTrip(t *testing.T) {
	indices := make([]int32, 4096)
	for i := range indices {
		indices[i] = int32(i % 3)
	}
	words := PackIndices(indices, 4)
	got := UnpackIndices(words, 4, 4096)
	for i := range indices {
		if got[i] != indices[i] {
			t.Fatalf("index %d = %d, want %d", i, got[i], indices[i])
		}
	}
}

func TestIndirectContainerRoundTrip(t *testing.T) {
	palette := []int32{0, 9, 17}
	indices := make([]int32, 4096)
	for i := range indices {
		indices[i] = int32(i % len(palette))
	}

	var buf bytes.Buffer
	bitsPerEntry := byte(4)
	if err := WriteIndirectContainer(&buf, bitsPerEntry, palette, indices); err != nil {
		t.Fatalf("WriteIndirectContainer error: %v", err)
	}

	gotBits, gotPalette, gotIndices, err := ReadPalettedContainer(&buf, 4096)
	if err != nil {
		t.Fatalf("ReadPalettedContainer error: %v", err)
	}
	if gotBits != bitsPerEntry {
		t.Errorf("bitsPerEntry = %d, want %d", gotBits, bitsPerEntry)
	}
	if len(gotPalette) != len(palette) {
		t.Fatalf("palette length = %d, want %d", len(gotPalette), len(palette))
	}
	for i, id := range palette {
		if gotPalette[i] != id {
			t.Errorf("palette[%d] = %d, want %d", i, gotPalette[i], id)
		}
	}
	for i := range indices {
		if gotIndices[i] != indices[i] {
			t.Fatalf("indices[%d] = %d, want %d", i, gotIndices[i], indices[i])
		}
	}
}

func TestSingleValuedContainerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSingleValuedContainer(&buf, 42); err != nil {
		t.Fatalf("WriteSingleValuedContainer error: %v", err)
	}
	bits, palette, indices, err := ReadPalettedContainer(&buf, 64)
	if err != nil {
		t.Fatalf("ReadPalettedContainer error: %v", err)
	}
	if bits != 0 {
		t.Errorf("bitsPerEntry = %d, want 0", bits)
	}
	if len(palette) != 1 || palette[0] != 42 {
		t.Errorf("palette = %v, want [42]", palette)
	}
	for _, idx := range indices {
		if idx != 0 {
			t.Fatalf("single-valued index = %d, want 0", idx)
		}
	}
}

func TestCeilLog2(t *testing.T) {
	tests := []struct {
		in, out int
	}{
		{1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {256, 8},
	}
	for _, tt := range tests {
		if got := CeilLog2(tt.in); got != tt.out {
			t.Errorf("CeilLog2(%d) = %d, want %d", tt.in, got, tt.out)
		}
	}
}

func TestBitSetRoundTrip(t *testing.T) {
	bs := NewBitSet(200)
	bs.Set(0)
	bs.Set(63)
	bs.Set(64)
	bs.Set(199)

	var buf bytes.Buffer
	if err := WriteBitSet(&buf, bs); err != nil {
		t.Fatalf("WriteBitSet error: %v", err)
	}
	got, err := ReadBitSet(&buf)
	if err != nil {
		t.Fatalf("ReadBitSet error: %v", err)
	}
	for _, bit := range []int{0, 63, 64, 199} {
		if !got.Get(bit) {
			t.Errorf("bit %d not set after round trip", bit)
		}
	}
	if got.Get(1) || got.Get(65) {
		t.Errorf("unexpected bit set after round trip")
	}
}
