package world

import (
	"bytes"
	"testing"

	"github.com/StoreStation/vibecraft773/pkg/protocol"
)

func TestSerializeChunkHeader(t *testing.T) {
	m := newTestManager(t)
	m.LoadChunk(2, -3, 64, FlatMode)

	body := SerializeChunk(m, 2, -3)
	r := bytes.NewReader(body)

	cx, err := protocol.ReadInt32(r)
	if err != nil || cx != 2 {
		t.Fatalf("chunk_x = %d, %v, want 2", cx, err)
	}
	cz, err := protocol.ReadInt32(r)
	if err != nil || cz != -3 {
		t.Fatalf("chunk_z = %d, %v, want -3", cz, err)
	}
}

func TestSerializeChunkHeightMapShape(t *testing.T) {
	m := newTestManager(t)
	m.LoadChunk(0, 0, 64, FlatMode)

	body := SerializeChunk(m, 0, 0)
	r := bytes.NewReader(body)
	protocol.ReadInt32(r)
	protocol.ReadInt32(r)

	count, _, err := protocol.ReadVarInt(r)
	if err != nil || count != 1 {
		t.Fatalf("heightmap count = %d, %v, want 1", count, err)
	}
	tag, _, err := protocol.ReadVarInt(r)
	if err != nil || tag != motionBlockingTag {
		t.Fatalf("heightmap tag = %d, %v, want %d", tag, err, motionBlockingTag)
	}
	numLongs, _, err := protocol.ReadVarInt(r)
	if err != nil || numLongs != heightMapLongs {
		t.Fatalf("heightmap long count = %d, %v, want %d", numLongs, err, heightMapLongs)
	}

	words := make([]uint64, numLongs)
	for i := range words {
		v, err := protocol.ReadInt64(r)
		if err != nil {
			t.Fatalf("reading heightmap word %d: %v", i, err)
		}
		words[i] = uint64(v)
	}
	entries := protocol.UnpackIndices(words, heightMapBits, heightMapEntries)
	for _, e := range entries {
		if e != 64-MinY {
			t.Fatalf("heightmap entry = %d, want %d", e, 64-MinY)
		}
	}
}

func TestSerializeChunkSectionCount(t *testing.T) {
	m := newTestManager(t)
	m.LoadChunk(0, 0, 64, FlatMode)
	body := SerializeChunk(m, 0, 0)

	// Every section contributes at least a 2-byte non-air count plus two
	// single-valued containers (2 bytes each): a generous lower bound check
	// that the body isn't truncated.
	minSize := SectionsPerChunk * (2 + 2 + 2)
	if len(body) < minSize {
		t.Fatalf("serialized body too small: %d bytes, want at least %d", len(body), minSize)
	}
}

func TestBlockBitsPerEntryClamped(t *testing.T) {
	if got := blockBitsPerEntry(1); got != 0 {
		t.Errorf("blockBitsPerEntry(1) = %d, want 0", got)
	}
	if got := blockBitsPerEntry(2); got != minBitsPerEntry {
		t.Errorf("blockBitsPerEntry(2) = %d, want %d", got, minBitsPerEntry)
	}
	if got := blockBitsPerEntry(1000); got != maxBitsPerEntry {
		t.Errorf("blockBitsPerEntry(1000) = %d, want %d", got, maxBitsPerEntry)
	}
}
