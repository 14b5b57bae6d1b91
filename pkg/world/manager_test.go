package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/StoreStation/vibecraft773/pkg/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	blocks := `{
		"minecraft:stone": {"states": [{"id": 1}]},
		"minecraft:dirt": {"states": [{"id": 2}]},
		"minecraft:grass_block": {"states": [{"id": 3}]},
		"minecraft:water": {"states": [{"id": 4}]},
		"minecraft:white_wool": {"states": [{"id": 5}]},
		"minecraft:yellow_wool": {"states": [{"id": 6}]}
	}`
	if err := os.WriteFile(filepath.Join(dir, "blocks.json"), []byte(blocks), 0o644); err != nil {
		t.Fatalf("write blocks.json: %v", err)
	}
	return registry.Load(dir)
}

func newTestManager(t *testing.T) *BlockManager {
	t.Helper()
	reg := testRegistry(t)
	gen := NewGenerator(DefaultGeneratorConfig(11))
	return NewBlockManager(reg, gen)
}

func TestGetBlockDefaultsToAir(t *testing.T) {
	m := newTestManager(t)
	if m.GetBlock(0, 0, 0) != registry.AirStateID {
		t.Errorf("expected air for unloaded chunk")
	}
	if m.GetBlock(0, MinY-1, 0) != registry.AirStateID {
		t.Errorf("expected air below MinY")
	}
	if m.GetBlock(0, MaxY+1, 0) != registry.AirStateID {
		t.Errorf("expected air above MaxY")
	}
}

func TestSetBlockLazilyMaterializesChunk(t *testing.T) {
	m := newTestManager(t)
	if m.IsChunkLoaded(0, 0) {
		t.Fatalf("chunk should start unloaded")
	}
	m.SetBlock(5, 70, 5, 1)
	if !m.IsChunkLoaded(0, 0) {
		t.Errorf("SetBlock should materialize the containing chunk")
	}
	if got := m.GetBlock(5, 70, 5); got != 1 {
		t.Errorf("GetBlock after SetBlock = %d, want 1", got)
	}
	if !m.IsBlockSolid(5, 70, 5) {
		t.Errorf("non-air block should be solid")
	}
}

func TestSetBlockOutOfRangeIsNoop(t *testing.T) {
	m := newTestManager(t)
	m.SetBlock(0, MaxY+10, 0, 1)
	if m.IsChunkLoaded(0, 0) {
		t.Errorf("out-of-range SetBlock should not materialize a chunk")
	}
}

func TestLoadChunkFlatMode(t *testing.T) {
	m := newTestManager(t)
	m.LoadChunk(0, 0, 64, FlatMode)

	if got := m.GetBlock(3, 64, 3); got != 3 { // grass
		t.Errorf("surface block = %d, want grass(3)", got)
	}
	if got := m.GetBlock(3, 63, 3); got != 2 { // dirt
		t.Errorf("below-surface block = %d, want dirt(2)", got)
	}
	if got := m.GetBlock(3, 65, 3); got != registry.AirStateID {
		t.Errorf("above-surface block = %d, want air", got)
	}
	if h := m.ColumnHeight(0, 0, 3, 3); h != 64 {
		t.Errorf("ColumnHeight = %d, want 64", h)
	}
}

func TestLoadChunkIdempotent(t *testing.T) {
	m := newTestManager(t)
	m.LoadChunk(0, 0, 64, FlatMode)
	m.SetBlock(0, 64, 0, 99)
	m.LoadChunk(0, 0, 70, FlatMode) // should be a no-op: already loaded
	if got := m.GetBlock(0, 64, 0); got != 99 {
		t.Errorf("second LoadChunk overwrote existing data: got %d, want 99", got)
	}
}

func TestMutationTrackingRoundTrip(t *testing.T) {
	m := newTestManager(t)
	m.SetBlock(1, 64, 1, 5)
	m.SetBlock(2, 64, 2, 6)

	updated := m.GetUpdatedBlocks()
	if len(updated) != 2 {
		t.Fatalf("GetUpdatedBlocks() = %v, want 2 entries", updated)
	}
	if _, ok := updated[BlockPos{1, 64, 1}]; !ok {
		t.Errorf("missing mutation at (1,64,1)")
	}

	m.ClearUpdatedBlocks()
	if len(m.GetUpdatedBlocks()) != 0 {
		t.Errorf("expected empty mutation set after clear")
	}
}

func TestGetChunkSectionForProtocolUnloadedIsAir(t *testing.T) {
	m := newTestManager(t)
	nonAir, palette, indices := m.GetChunkSectionForProtocol(4, 4, 5)
	if nonAir != 0 {
		t.Errorf("nonAir = %d, want 0", nonAir)
	}
	if len(palette) != 1 || palette[0] != int32(registry.AirStateID) {
		t.Errorf("palette = %v, want [air]", palette)
	}
	if len(indices) != BlockSectionCount {
		t.Errorf("len(indices) = %d, want %d", len(indices), BlockSectionCount)
	}
}

func TestGetChunkSectionForProtocolLoadedSection(t *testing.T) {
	m := newTestManager(t)
	m.LoadChunk(0, 0, 64, FlatMode)

	sy := SectionY(64)
	nonAir, palette, _ := m.GetChunkSectionForProtocol(0, 0, sy)
	if nonAir == 0 {
		t.Errorf("expected some non-air blocks in the surface section")
	}
	if len(palette) < 2 {
		t.Errorf("expected multiple palette entries (air, grass), got %v", palette)
	}
}
