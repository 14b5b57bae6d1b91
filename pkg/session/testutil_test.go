package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/StoreStation/vibecraft773/pkg/registry"
	"github.com/StoreStation/vibecraft773/pkg/world"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	dir := t.TempDir()
	blocks := `{
		"minecraft:stone": {"states": [{"id": 1}]},
		"minecraft:dirt": {"states": [{"id": 2}]},
		"minecraft:grass_block": {"states": [{"id": 3}]},
		"minecraft:oak_log": {"states": [{"id": 4}]}
	}`
	if err := os.WriteFile(filepath.Join(dir, "blocks.json"), []byte(blocks), 0o644); err != nil {
		t.Fatalf("write blocks.json: %v", err)
	}
	registries := `{
		"minecraft:item": {"entries": {
			"minecraft:dirt": {"protocol_id": 12},
			"minecraft:stone": {"protocol_id": 13}
		}},
		"minecraft:entity_type": {"entries": {"minecraft:item": {"protocol_id": 58}}}
	}`
	if err := os.WriteFile(filepath.Join(dir, "registries.json"), []byte(registries), 0o644); err != nil {
		t.Fatalf("write registries.json: %v", err)
	}
	loot := `{"minecraft:grass_block": "minecraft:dirt"}`
	if err := os.WriteFile(filepath.Join(dir, "loot_table_mappings.json"), []byte(loot), 0o644); err != nil {
		t.Fatalf("write loot_table_mappings.json: %v", err)
	}
	return registry.Load(dir)
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	reg := testRegistry(t)
	gen := world.NewGenerator(world.DefaultGeneratorConfig(7))
	return NewWorld(reg, gen, 10, 0)
}
