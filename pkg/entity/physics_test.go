package entity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/StoreStation/vibecraft773/pkg/registry"
	"github.com/StoreStation/vibecraft773/pkg/world"
)

func newTestWorld(t *testing.T) *world.BlockManager {
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
	reg := registry.Load(dir)
	gen := world.NewGenerator(world.DefaultGeneratorConfig(1))
	return world.NewBlockManager(reg, gen)
}

func testIDAllocator() IDAllocator {
	var next uint32
	return func() uint32 {
		next++
		return next
	}
}

func TestItemFallsUnderGravity(t *testing.T) {
	wm := newTestWorld(t)
	wm.LoadChunk(0, 0, 64, world.FlatMode)

	tb := NewTable(wm, testIDAllocator())
	e := tb.Spawn(Vec3{0.5, 80, 0.5}, Vec3{}, 2, 1, 0)

	tb.tick()
	if e.Velocity.Y >= 0 {
		t.Fatalf("expected downward velocity after one tick of gravity, got %v", e.Velocity)
	}
	if e.Position.Y >= 80 {
		t.Fatalf("expected position to fall, got %v", e.Position)
	}
}

func TestItemRestsOnSolidGroundAndFreezes(t *testing.T) {
	wm := newTestWorld(t)
	wm.LoadChunk(0, 0, 64, world.FlatMode) // grass at y=64, dirt at 63

	tb := NewTable(wm, testIDAllocator())
	e := tb.Spawn(Vec3{0.5, 80, 0.5}, Vec3{}, 2, 1, 0)

	for i := 0; i < 60; i++ {
		tb.tick()
	}

	if e.Velocity.X != 0 || e.Velocity.Y != 0 || e.Velocity.Z != 0 {
		t.Fatalf("expected entity at rest, velocity = %v", e.Velocity)
	}
	cache := tb.getCache(e.ID)
	if cache == nil || !cache.GravityDisabled {
		t.Fatalf("expected a frozen collision cache, got %v", cache)
	}

	frozenY := e.Position.Y
	tb.tick()
	if e.Position.Y != frozenY {
		t.Errorf("resting entity moved from %v to %v on a tick with no block mutation", frozenY, e.Position.Y)
	}
}

func TestCacheInvalidationResumesFall(t *testing.T) {
	wm := newTestWorld(t)
	wm.LoadChunk(0, 0, 64, world.FlatMode)

	tb := NewTable(wm, testIDAllocator())
	e := tb.Spawn(Vec3{0.5, 80, 0.5}, Vec3{}, 2, 1, 0)

	for i := 0; i < 60; i++ {
		tb.tick()
	}
	cache := tb.getCache(e.ID)
	if cache == nil || !cache.GravityDisabled {
		t.Fatalf("expected entity to be at rest before mining the floor")
	}

	wm.SetBlock(0, 64, 0, 99) // any mutation in the checked footprint

	tb.tick() // this tick still uses the stale gravity_disabled flag
	tb.tick() // gravity should resume here

	if e.Velocity.Y >= 0 {
		t.Errorf("expected gravity to resume after the floor mutated, velocity = %v", e.Velocity)
	}
}

func TestOutOfRangeEntityRemoved(t *testing.T) {
	wm := newTestWorld(t)
	tb := NewTable(wm, testIDAllocator())
	e := tb.Spawn(Vec3{0, float64(world.MinY) - 5, 0}, Vec3{}, 2, 1, 0)

	tb.stepEntityRecovered(e, wm.GetUpdatedBlocks())

	if _, ok := tb.Get(e.ID); ok {
		t.Errorf("expected out-of-range entity to be removed")
	}
}

func TestPickableRespectsDelay(t *testing.T) {
	wm := newTestWorld(t)
	tb := NewTable(wm, testIDAllocator())
	e := tb.Spawn(Vec3{0, 70, 0}, Vec3{}, 2, 1, DefaultPickupDelay)

	if e.Pickable(e.SpawnTime) {
		t.Errorf("expected entity to not be pickable immediately with a nonzero delay")
	}
}
