package entity

import (
	"log"
	"sync"
	"time"

	"github.com/StoreStation/vibecraft773/pkg/world"
	"github.com/google/uuid"
)

const (
	tickInterval = 50 * time.Millisecond
	gravity      = -0.04
	drag         = 0.98
	itemWidth    = 0.25
	itemHeight   = 0.25
	posEpsilon   = 1e-6
	velEpsilon   = 1e-6
	snapEpsilon  = 1e-4
)

// CollisionCache is the per-entity freeze-on-rest record (spec.md §3).
type CollisionCache struct {
	BlocksChecked   map[world.BlockPos]struct{}
	Result          bool
	Position        Vec3
	Velocity        Vec3
	GravityDisabled bool
}

// TickGate is the tick loop's pause/single-step primitive (spec.md §9: "a
// binary gate, awaited at the top of the tick loop... do not special-case
// this in the physics code itself").
type TickGate struct {
	mu     sync.Mutex
	paused bool
	permit chan struct{}
}

// NewTickGate returns a gate in the running state.
func NewTickGate() *TickGate {
	return &TickGate{permit: make(chan struct{}, 1)}
}

// Pause halts the tick loop before its next step.
func (g *TickGate) Pause() {
	g.mu.Lock()
	g.paused = true
	g.mu.Unlock()
}

// Resume lets the tick loop run freely again.
func (g *TickGate) Resume() {
	g.mu.Lock()
	g.paused = false
	g.mu.Unlock()
}

// Step grants one single-step permit, consumed by a paused tick loop.
func (g *TickGate) Step() {
	select {
	case g.permit <- struct{}{}:
	default:
	}
}

func (g *TickGate) wait(stop <-chan struct{}) bool {
	for {
		g.mu.Lock()
		paused := g.paused
		g.mu.Unlock()
		if !paused {
			return true
		}
		select {
		case <-stop:
			return false
		case <-g.permit:
			return true
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// IDAllocator draws the next id from a single shared id space. Table uses it
// so item-entity ids never collide with player entity ids (spec.md §5: one
// session-handler thread per client, all sharing one World).
type IDAllocator func() uint32

// Table owns every item entity and its collision cache, shared between the
// world tick thread and session pickup scans (spec.md §2, §5).
type Table struct {
	mu       sync.Mutex
	entities map[uint32]*ItemEntity
	caches   map[uint32]*CollisionCache
	alloc    IDAllocator

	world *world.BlockManager
	Gate  *TickGate
}

// NewTable builds an entity table backed by wm, drawing entity ids from alloc.
func NewTable(wm *world.BlockManager, alloc IDAllocator) *Table {
	return &Table{
		entities: make(map[uint32]*ItemEntity),
		caches:   make(map[uint32]*CollisionCache),
		alloc:    alloc,
		world:    wm,
		Gate:     NewTickGate(),
	}
}

// Spawn creates and registers a new item entity, returning it.
func (t *Table) Spawn(pos, vel Vec3, itemID uint32, count uint8, pickupDelay float32) *ItemEntity {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.alloc()
	now := time.Now()
	e := &ItemEntity{
		ID:             id,
		UUID:           uuid.New(),
		Position:       pos,
		Velocity:       vel,
		ItemID:         itemID,
		Count:          count,
		SpawnTime:      now,
		LastUpdateTime: now,
		PickupDelay:    pickupDelay,
	}
	t.entities[id] = e
	return e
}

// Remove deletes an entity and its cache.
func (t *Table) Remove(id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entities, id)
	delete(t.caches, id)
}

// Get returns the entity for id, if any.
func (t *Table) Get(id uint32) (*ItemEntity, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entities[id]
	return e, ok
}

// Snapshot returns a stable copy of the live entity pointers, safe to range
// over without holding the table lock (used by the tick loop and pickup scan).
func (t *Table) Snapshot() []*ItemEntity {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*ItemEntity, 0, len(t.entities))
	for _, e := range t.entities {
		out = append(out, e)
	}
	return out
}

func (t *Table) getCache(id uint32) *CollisionCache {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.caches[id]
}

func (t *Table) setCache(id uint32, c *CollisionCache) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.caches[id] = c
}

func (t *Table) clearCache(id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.caches, id)
}

// Run drives the 20 Hz tick loop until stop is closed.
func (t *Table) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		if !t.Gate.wait(stop) {
			return
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *Table) tick() {
	updated := t.world.GetUpdatedBlocks()

	for _, e := range t.Snapshot() {
		t.stepEntityRecovered(e, updated)
	}

	t.world.ClearUpdatedBlocks()
}

func (t *Table) stepEntityRecovered(e *ItemEntity, updated map[world.BlockPos]struct{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("entity: panic updating entity %d, removing: %v", e.ID, r)
			t.Remove(e.ID)
		}
	}()
	t.stepEntity(e, updated)
}

func (t *Table) stepEntity(e *ItemEntity, updated map[world.BlockPos]struct{}) {
	if e.Position.Y < float64(world.MinY) || e.Position.Y > float64(world.MaxY) {
		t.Remove(e.ID)
		return
	}

	cache := t.getCache(e.ID)

	gravityDisabled := cache != nil && cache.GravityDisabled
	v := e.Velocity
	if !gravityDisabled {
		v.Y += gravity
	}
	v = v.Scale(drag)

	cx, cz := world.ChunkCoords(int32(e.Position.X), int32(e.Position.Z))
	if !t.world.IsChunkLoaded(cx, cz) {
		t.world.LoadChunk(cx, cz, 0, world.NoiseMode)
	}

	p := e.Position
	pPrime := p.Add(v)

	if cache != nil && cache.Position.Near(p, posEpsilon) && cache.Velocity.Near(v, velEpsilon) && !blocksIntersect(cache.BlocksChecked, updated) {
		applyResult(e, p, pPrime, v, cache.Result, cache.BlocksChecked, t)
		e.LastUpdateTime = time.Now()
		return
	}
	if cache != nil && blocksIntersect(cache.BlocksChecked, updated) {
		cache.GravityDisabled = false
	}

	hit, visited := sweepLine(t.world, p, pPrime)
	applyResult(e, p, pPrime, v, hit, visited, t)

	finalPos := e.Position
	clampHorizontal(t.world, &finalPos, &e.Velocity)
	e.Position = finalPos

	e.LastUpdateTime = time.Now()
}

func applyResult(e *ItemEntity, p, pPrime, v Vec3, hit bool, blocksChecked map[world.BlockPos]struct{}, t *Table) {
	if hit {
		e.Velocity = Vec3{}
		e.Position = p
		t.setCache(e.ID, &CollisionCache{
			BlocksChecked:   blocksChecked,
			Result:          true,
			Position:        p,
			Velocity:        Vec3{},
			GravityDisabled: true,
		})
		return
	}
	e.Velocity = v
	e.Position = pPrime
	t.clearCache(e.ID)
}

func blocksIntersect(a, b map[world.BlockPos]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for k := range small {
		if _, ok := large[k]; ok {
			return true
		}
	}
	return false
}

// clampHorizontal is the independent anti-grazing pass (spec.md §4.7 step 7).
func clampHorizontal(bs BlockSolid, pos *Vec3, vel *Vec3) {
	feetY := floorToBlock(pos.Y)
	headY := floorToBlock(pos.Y + itemHeight)
	z := floorToBlock(pos.Z)
	x := floorToBlock(pos.X)

	switch {
	case vel.X > 0:
		nx := floorToBlock(pos.X + vel.X)
		if bs.IsBlockSolid(nx, feetY, z) || bs.IsBlockSolid(nx, headY, z) {
			vel.X = 0
			pos.X = float64(x) + 1 - snapEpsilon
		}
	case vel.X < 0:
		nx := floorToBlock(pos.X + vel.X)
		if bs.IsBlockSolid(nx, feetY, z) || bs.IsBlockSolid(nx, headY, z) {
			vel.X = 0
			pos.X = float64(x) + snapEpsilon
		}
	}

	x = floorToBlock(pos.X)
	switch {
	case vel.Z > 0:
		nz := floorToBlock(pos.Z + vel.Z)
		if bs.IsBlockSolid(x, feetY, nz) || bs.IsBlockSolid(x, headY, nz) {
			vel.Z = 0
			pos.Z = float64(z) + 1 - snapEpsilon
		}
	case vel.Z < 0:
		nz := floorToBlock(pos.Z + vel.Z)
		if bs.IsBlockSolid(x, feetY, nz) || bs.IsBlockSolid(x, headY, nz) {
			vel.Z = 0
			pos.Z = float64(z) + snapEpsilon
		}
	}
}
