package world

import "testing"

func TestFloorDivMod(t *testing.T) {
	cases := []struct {
		a, b     int32
		wantDiv  int32
		wantMod  int32
	}{
		{5, 16, 0, 5},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
		{16, 16, 1, 0},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.wantDiv {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.wantDiv)
		}
		if got := FloorMod(c.a, c.b); got != c.wantMod {
			t.Errorf("FloorMod(%d, %d) = %d, want %d", c.a, c.b, got, c.wantMod)
		}
	}
}

func TestChunkCoords(t *testing.T) {
	cx, cz := ChunkCoords(-1, 31)
	if cx != -1 || cz != 1 {
		t.Errorf("ChunkCoords(-1, 31) = (%d, %d), want (-1, 1)", cx, cz)
	}
}

func TestLocalCoordsRoundTrip(t *testing.T) {
	lx, ly, lz, sy := LocalCoords(17, -64, 33)
	if lx != 1 || lz != 1 || sy != 0 || ly != 0 {
		t.Errorf("LocalCoords(17, -64, 33) = (%d, %d, %d, %d)", lx, ly, lz, sy)
	}

	lx, ly, lz, sy = LocalCoords(-1, 319, -1)
	if lx != 15 || lz != 15 || sy != SectionsPerChunk-1 || ly != 15 {
		t.Errorf("LocalCoords(-1, 319, -1) = (%d, %d, %d, %d)", lx, ly, lz, sy)
	}
}

func TestLocalIndexDistinct(t *testing.T) {
	seen := make(map[int32]bool)
	for ly := int32(0); ly < 16; ly++ {
		for lz := int32(0); lz < 16; lz++ {
			for lx := int32(0); lx < 16; lx++ {
				idx := LocalIndex(lx, ly, lz)
				if idx < 0 || idx >= BlockSectionCount {
					t.Fatalf("LocalIndex(%d,%d,%d) = %d out of range", lx, ly, lz, idx)
				}
				if seen[idx] {
					t.Fatalf("LocalIndex(%d,%d,%d) = %d collides", lx, ly, lz, idx)
				}
				seen[idx] = true
			}
		}
	}
}
