// Package registry loads the static, read-only data tables that back block,
// item, entity-type, loot, biome and damage-type lookups. Nothing in this
// package performs network I/O or mutates shared world state; a *Registry is
// built once at process start and handed to every other component as an
// immutable value (see spec.md's "global state of registries" design note).
package registry

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// AirStateID is the block-state id that always denotes air.
const AirStateID uint32 = 0

// Registry is the read-only, memoized view over extracted_data/*.json.
// Every lookup map is fully populated at Load time (there is nothing left to
// memoize lazily); callers get O(1) map reads for every spec.md §4.3 lookup.
type Registry struct {
	blockNameToState map[string]uint32
	blockStateToName map[uint32]string
	itemNameToID     map[string]int32
	itemIDToName     map[int32]string
	entityTypeID     map[string]int32
	lootDrop         map[string]string
	blockHardness    map[string]float64
	biomes           []string
	damageTypes      []string
	registryData     map[string]map[string]json.RawMessage
}

type registriesFile struct {
	// registry name -> {entries: {entry name -> {protocol_id: int}}}
	Registries map[string]struct {
		Entries map[string]struct {
			ProtocolID int32 `json:"protocol_id"`
		} `json:"entries"`
	}
}

type blocksFile map[string]struct {
	States []struct {
		ID uint32 `json:"id"`
	} `json:"states"`
}

// Load reads every known table from dir. Missing files are logged and
// tolerated: the registry is always usable, just sparser (spec.md §6:
// "Absence of a file is logged; any specific lookup that misses returns
// none, and call sites must tolerate this").
func Load(dir string) *Registry {
	r := &Registry{
		blockNameToState: make(map[string]uint32),
		blockStateToName: make(map[uint32]string),
		itemNameToID:     make(map[string]int32),
		itemIDToName:     make(map[int32]string),
		entityTypeID:     make(map[string]int32),
		lootDrop:         make(map[string]string),
		blockHardness:    make(map[string]float64),
		registryData:     make(map[string]map[string]json.RawMessage),
	}

	r.loadRegistries(filepath.Join(dir, "registries.json"))
	r.loadBlocks(filepath.Join(dir, "blocks.json"))
	r.loadLootTable(filepath.Join(dir, "loot_table_mappings.json"))
	r.loadStringList(filepath.Join(dir, "biomes.json"), &r.biomes)
	r.loadStringList(filepath.Join(dir, "damage_types.json"), &r.damageTypes)
	r.loadRegistryData(filepath.Join(dir, "registry_data.json"))
	r.loadHardness(filepath.Join(dir, "block_hardness.json"))

	r.blockNameToState["minecraft:air"] = AirStateID
	r.blockStateToName[AirStateID] = "minecraft:air"

	return r
}

func readFile(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("registry: %s absent or unreadable (%v); lookups against it will miss", path, err)
		return nil, false
	}
	return data, true
}

func (r *Registry) loadRegistries(path string) {
	data, ok := readFile(path)
	if !ok {
		return
	}
	var f registriesFile
	if err := json.Unmarshal(data, &f.Registries); err != nil {
		log.Printf("registry: failed to parse %s: %v", path, err)
		return
	}
	for regName, reg := range f.Registries {
		switch regName {
		case "minecraft:item":
			for name, e := range reg.Entries {
				r.itemNameToID[name] = e.ProtocolID
				r.itemIDToName[e.ProtocolID] = name
			}
		case "minecraft:entity_type":
			for name, e := range reg.Entries {
				r.entityTypeID[name] = e.ProtocolID
			}
		}
	}
}

func (r *Registry) loadBlocks(path string) {
	data, ok := readFile(path)
	if !ok {
		return
	}
	var f blocksFile
	if err := json.Unmarshal(data, &f); err != nil {
		log.Printf("registry: failed to parse %s: %v", path, err)
		return
	}
	for name, block := range f {
		if len(block.States) == 0 {
			continue
		}
		defaultID := block.States[0].ID
		r.blockNameToState[name] = defaultID
		for _, st := range block.States {
			r.blockStateToName[st.ID] = name
		}
		_ = defaultID
	}
}

func (r *Registry) loadLootTable(path string) {
	data, ok := readFile(path)
	if !ok {
		return
	}
	if err := json.Unmarshal(data, &r.lootDrop); err != nil {
		log.Printf("registry: failed to parse %s: %v", path, err)
	}
}

func (r *Registry) loadStringList(path string, into *[]string) {
	data, ok := readFile(path)
	if !ok {
		return
	}
	if err := json.Unmarshal(data, into); err != nil {
		log.Printf("registry: failed to parse %s: %v", path, err)
	}
}

func (r *Registry) loadRegistryData(path string) {
	data, ok := readFile(path)
	if !ok {
		return
	}
	if err := json.Unmarshal(data, &r.registryData); err != nil {
		log.Printf("registry: failed to parse %s: %v", path, err)
	}
}

func (r *Registry) loadHardness(path string) {
	data, ok := readFile(path)
	if !ok {
		return
	}
	if err := json.Unmarshal(data, &r.blockHardness); err != nil {
		log.Printf("registry: failed to parse %s: %v", path, err)
	}
}

// BlockStateByName returns the default state id for a block name.
func (r *Registry) BlockStateByName(name string) (uint32, bool) {
	id, ok := r.blockNameToState[name]
	return id, ok
}

// BlockNameByState returns the canonical block name for a state id.
func (r *Registry) BlockNameByState(state uint32) (string, bool) {
	name, ok := r.blockStateToName[state]
	return name, ok
}

// ItemIDByName returns the protocol id for an item name.
func (r *Registry) ItemIDByName(name string) (int32, bool) {
	id, ok := r.itemNameToID[name]
	return id, ok
}

// ItemNameByID returns the item name for a protocol id.
func (r *Registry) ItemNameByID(id int32) (string, bool) {
	name, ok := r.itemIDToName[id]
	return name, ok
}

// EntityTypeID returns the protocol id for an entity type name (e.g. "minecraft:item").
func (r *Registry) EntityTypeID(name string) (int32, bool) {
	id, ok := r.entityTypeID[name]
	return id, ok
}

// LootDrop resolves the item name dropped when a block is mined.
func (r *Registry) LootDrop(blockName string) (string, bool) {
	item, ok := r.lootDrop[blockName]
	return item, ok
}

// BlockHardness returns advisory hardness; -1 denotes unbreakable. Unused by
// the mining fast-path (spec.md treats digging as resolved on completion
// regardless of timing) but exposed for callers that want it.
func (r *Registry) BlockHardness(name string) (float64, bool) {
	h, ok := r.blockHardness[name]
	return h, ok
}

// Biomes returns the ordered biome name list (order defines implicit numeric ids).
func (r *Registry) Biomes() []string { return r.biomes }

// DamageTypes returns the ordered damage-type name list.
func (r *Registry) DamageTypes() []string { return r.damageTypes }
