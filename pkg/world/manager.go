package world

import (
	"log"
	"sync"

	"github.com/StoreStation/vibecraft773/pkg/registry"
)

// WaterLevel is sea level: the noise fill rule puts water in every air block
// above the surface up to and including this y.
const WaterLevel = 63

// LoadMode selects the §4.4 chunk-fill rule.
type LoadMode int

const (
	// FlatMode fills a column with grass at groundY, dirt at groundY-1, air elsewhere.
	FlatMode LoadMode = iota
	// NoiseMode fills a column from the terrain generator's height map (§4.5).
	NoiseMode
)

type blockIDs struct {
	stone, dirt, grass, water, whiteWool, yellowWool uint32
}

func resolveBlockID(reg *registry.Registry, name string) uint32 {
	if id, ok := reg.BlockStateByName(name); ok {
		return id
	}
	log.Printf("world: block %q missing from registry, falling back to air", name)
	return registry.AirStateID
}

// BlockManager is the sole authority on block contents (spec.md §3, §4.4): a
// sparse map of resident sections plus the set of blocks mutated since the
// last consumer-driven clear.
type BlockManager struct {
	mu sync.RWMutex

	sections map[sectionKey]*Section
	loaded   map[ChunkPos]bool
	mutated  map[BlockPos]struct{}
	mode     map[ChunkPos]LoadMode
	groundY  map[ChunkPos]int32

	gen *Generator
	ids blockIDs
}

// NewBlockManager builds a BlockManager backed by gen for lazy/noise fills
// and reg for resolving surface-block names to state ids.
func NewBlockManager(reg *registry.Registry, gen *Generator) *BlockManager {
	return &BlockManager{
		sections: make(map[sectionKey]*Section),
		loaded:   make(map[ChunkPos]bool),
		mutated:  make(map[BlockPos]struct{}),
		mode:     make(map[ChunkPos]LoadMode),
		groundY:  make(map[ChunkPos]int32),
		gen:      gen,
		ids: blockIDs{
			stone:       resolveBlockID(reg, "minecraft:stone"),
			dirt:        resolveBlockID(reg, "minecraft:dirt"),
			grass:       resolveBlockID(reg, "minecraft:grass_block"),
			water:       resolveBlockID(reg, "minecraft:water"),
			whiteWool:   resolveBlockID(reg, "minecraft:white_wool"),
			yellowWool:  resolveBlockID(reg, "minecraft:yellow_wool"),
		},
	}
}

// GetBlock returns the block state id at (x, y, z), or air if the section
// isn't resident or y is out of world range.
func (m *BlockManager) GetBlock(x, y, z int32) uint32 {
	if y < MinY || y > MaxY {
		return registry.AirStateID
	}
	cx, cz := ChunkCoords(x, z)
	lx, ly, lz, sy := LocalCoords(x, y, z)

	m.mu.RLock()
	defer m.mu.RUnlock()
	sec, ok := m.sections[sectionKey{cx, cz, sy}]
	if !ok {
		return registry.AirStateID
	}
	return sec.Blocks[LocalIndex(lx, ly, lz)]
}

// IsBlockSolid is the collision-world predicate: any non-air block is a unit
// solid occupying [bx,bx+1) x [by,by+1) x [bz,bz+1).
func (m *BlockManager) IsBlockSolid(x, y, z int32) bool {
	return m.GetBlock(x, y, z) != registry.AirStateID
}

// SetBlock writes state at (x, y, z), lazily materializing (and, if not yet
// loaded, noise-generating) the containing chunk first. Records the mutation
// for collision-cache invalidation. Out-of-range y is a silent no-op.
func (m *BlockManager) SetBlock(x, y, z int32, state uint32) {
	if y < MinY || y > MaxY {
		return
	}
	cx, cz := ChunkCoords(x, z)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded[ChunkPos{cx, cz}] {
		m.fillChunkLocked(cx, cz, 0, NoiseMode)
	}

	lx, ly, lz, sy := LocalCoords(x, y, z)
	key := sectionKey{cx, cz, sy}
	sec, ok := m.sections[key]
	if !ok {
		sec = newSection()
		m.sections[key] = sec
	}
	sec.Blocks[LocalIndex(lx, ly, lz)] = state
	m.mutated[BlockPos{x, y, z}] = struct{}{}
}

// LoadChunk materializes all 24 sections of (cx, cz) using mode. Idempotent.
func (m *BlockManager) LoadChunk(cx, cz int32, groundY int32, mode LoadMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded[ChunkPos{cx, cz}] {
		return
	}
	m.fillChunkLocked(cx, cz, groundY, mode)
}

// fillChunkLocked must be called with mu held.
func (m *BlockManager) fillChunkLocked(cx, cz int32, groundY int32, mode LoadMode) {
	var heightMap [256]int32
	var kindMap [256]SurfaceKind
	if mode == NoiseMode {
		heightMap = m.gen.HeightMap(cx, cz)
		baseX, baseZ := cx*SectionSize, cz*SectionSize
		for lz := int32(0); lz < 16; lz++ {
			for lx := int32(0); lx < 16; lx++ {
				_, kind := m.gen.SurfaceProfile(baseX+lx, baseZ+lz)
				kindMap[heightIndex(lx, lz)] = kind
			}
		}
	}

	for sy := int32(0); sy < SectionsPerChunk; sy++ {
		sec := newSection()
		secBaseY := sy*SectionSize + MinY
		for lz := int32(0); lz < 16; lz++ {
			for lx := int32(0); lx < 16; lx++ {
				idx := heightIndex(lx, lz)
				for ly := int32(0); ly < 16; ly++ {
					y := secBaseY + ly
					var id uint32
					if mode == FlatMode {
						id = m.flatBlock(y, groundY)
					} else {
						id = m.noiseBlock(y, heightMap[idx], kindMap[idx])
					}
					sec.Blocks[LocalIndex(lx, ly, lz)] = id
				}
			}
		}
		m.sections[sectionKey{cx, cz, sy}] = sec
	}
	m.loaded[ChunkPos{cx, cz}] = true
	m.mode[ChunkPos{cx, cz}] = mode
	m.groundY[ChunkPos{cx, cz}] = groundY
}

// ColumnHeight returns the motion-blocking surface y for world column (wx, wz),
// used by the chunk serializer's heightmap and sky-light computation. Falls
// back to noise-mode generation semantics for an unloaded chunk so light can
// still be precomputed for a chunk about to be loaded.
func (m *BlockManager) ColumnHeight(cx, cz, wx, wz int32) int32 {
	m.mu.RLock()
	mode, ok := m.mode[ChunkPos{cx, cz}]
	gy := m.groundY[ChunkPos{cx, cz}]
	m.mu.RUnlock()

	if ok && mode == FlatMode {
		return gy
	}
	h, _ := m.gen.SurfaceProfile(wx, wz)
	return h
}

func (m *BlockManager) flatBlock(y, groundY int32) uint32 {
	switch {
	case y == groundY:
		return m.ids.grass
	case y == groundY-1:
		return m.ids.dirt
	default:
		return registry.AirStateID
	}
}

func (m *BlockManager) noiseBlock(y, height int32, kind SurfaceKind) uint32 {
	switch {
	case y == height:
		switch kind {
		case SurfaceWhiteWool:
			return m.ids.whiteWool
		case SurfaceYellowWool:
			return m.ids.yellowWool
		case SurfaceDirtSlope:
			return m.ids.dirt
		default:
			return m.ids.grass
		}
	case y < height && y >= height-3:
		return m.ids.dirt
	case y < height-3:
		return m.ids.stone
	case y > height && y <= WaterLevel:
		return m.ids.water
	default:
		return registry.AirStateID
	}
}

// IsChunkLoaded reports whether (cx, cz) has any resident section.
func (m *BlockManager) IsChunkLoaded(cx, cz int32) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded[ChunkPos{cx, cz}]
}

// GetChunkSectionForProtocol returns the data needed to serialize one
// section: the count of non-air entries, the sorted palette, and the
// per-block palette-index array. An absent section is reported as entirely air.
func (m *BlockManager) GetChunkSectionForProtocol(cx, cz, sectionY int32) (nonAirCount int, palette []int32, indices []int32) {
	m.mu.RLock()
	sec, ok := m.sections[sectionKey{cx, cz, sectionY}]
	m.mu.RUnlock()

	if !ok {
		indices = make([]int32, BlockSectionCount)
		return 0, []int32{int32(registry.AirStateID)}, indices
	}
	palette, indices = sec.Palette()
	return sec.NonAirCount(), palette, indices
}

// GetUpdatedBlocks returns a snapshot copy of the set mutated since the last clear.
func (m *BlockManager) GetUpdatedBlocks() map[BlockPos]struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[BlockPos]struct{}, len(m.mutated))
	for k := range m.mutated {
		out[k] = struct{}{}
	}
	return out
}

// ClearUpdatedBlocks empties the mutated set.
func (m *BlockManager) ClearUpdatedBlocks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutated = make(map[BlockPos]struct{})
}
