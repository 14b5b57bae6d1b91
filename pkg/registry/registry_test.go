package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMissingFilesTolerated(t *testing.T) {
	dir := t.TempDir()
	r := Load(dir)
	if _, ok := r.BlockStateByName("minecraft:stone"); ok {
		t.Errorf("expected miss for unloaded block table")
	}
	if name, ok := r.BlockNameByState(AirStateID); !ok || name != "minecraft:air" {
		t.Errorf("air state should always resolve, got %q, %v", name, ok)
	}
}

func TestLoadRegistriesAndBlocks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "registries.json", `{
		"minecraft:item": {"entries": {"minecraft:dirt": {"protocol_id": 12}}},
		"minecraft:entity_type": {"entries": {"minecraft:item": {"protocol_id": 58}}}
	}`)
	writeFile(t, dir, "blocks.json", `{
		"minecraft:grass_block": {"states": [{"id": 9}, {"id": 10}]},
		"minecraft:dirt": {"states": [{"id": 11}]}
	}`)
	writeFile(t, dir, "loot_table_mappings.json", `{"minecraft:grass_block": "minecraft:dirt"}`)
	writeFile(t, dir, "biomes.json", `["minecraft:plains", "minecraft:desert"]`)
	writeFile(t, dir, "damage_types.json", `["minecraft:in_fire"]`)

	r := Load(dir)

	if id, ok := r.ItemIDByName("minecraft:dirt"); !ok || id != 12 {
		t.Errorf("ItemIDByName = %d, %v, want 12, true", id, ok)
	}
	if name, ok := r.ItemNameByID(12); !ok || name != "minecraft:dirt" {
		t.Errorf("ItemNameByID = %q, %v", name, ok)
	}
	if id, ok := r.EntityTypeID("minecraft:item"); !ok || id != 58 {
		t.Errorf("EntityTypeID = %d, %v", id, ok)
	}
	if state, ok := r.BlockStateByName("minecraft:grass_block"); !ok || state != 9 {
		t.Errorf("BlockStateByName = %d, %v, want 9", state, ok)
	}
	if name, ok := r.BlockNameByState(10); !ok || name != "minecraft:grass_block" {
		t.Errorf("BlockNameByState(10) = %q, %v", name, ok)
	}
	if item, ok := r.LootDrop("minecraft:grass_block"); !ok || item != "minecraft:dirt" {
		t.Errorf("LootDrop = %q, %v", item, ok)
	}
	if len(r.Biomes()) != 2 || r.Biomes()[0] != "minecraft:plains" {
		t.Errorf("Biomes = %v", r.Biomes())
	}
	if len(r.DamageTypes()) != 1 {
		t.Errorf("DamageTypes = %v", r.DamageTypes())
	}
}

func TestLootMissIsSilent(t *testing.T) {
	dir := t.TempDir()
	r := Load(dir)
	if _, ok := r.LootDrop("minecraft:bedrock"); ok {
		t.Errorf("expected miss for unmapped loot")
	}
}
