package session

import (
	"sync"
	"sync/atomic"

	"github.com/StoreStation/vibecraft773/pkg/entity"
	"github.com/StoreStation/vibecraft773/pkg/registry"
	"github.com/StoreStation/vibecraft773/pkg/world"
)

// World is the state every session shares: the registry, the block store,
// the item-entity table, and the set of connected players (spec.md §3, §4).
// It carries no network code of its own; sessions mutate it directly under
// its own substructures' locks.
type World struct {
	Registry *registry.Registry
	Blocks   *world.BlockManager
	Entities *entity.Table

	ViewDistance    int32
	DefaultGameMode byte

	nextEntityID atomic.Uint32

	mu      sync.RWMutex
	players map[uint32]*Player
}

// NewWorld builds a World around an already-loaded registry and generator.
func NewWorld(reg *registry.Registry, gen *world.Generator, viewDistance int32, defaultGameMode byte) *World {
	blocks := world.NewBlockManager(reg, gen)
	w := &World{
		Registry:        reg,
		Blocks:          blocks,
		ViewDistance:    viewDistance,
		DefaultGameMode: defaultGameMode,
		players:         make(map[uint32]*Player),
	}
	w.Entities = entity.NewTable(blocks, w.NewEntityID)
	return w
}

// NewEntityID draws the next id from the single id space shared by players
// and item entities (mirrors the teacher's nextEID counter), so a player's
// Login(play) entity id and an item entity's wire id never collide.
func (w *World) NewEntityID() uint32 {
	return w.nextEntityID.Add(1)
}

func (w *World) addPlayer(p *Player) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players[p.EntityID] = p
}

func (w *World) removePlayer(p *Player) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.players, p.EntityID)
}

// Players returns a snapshot of connected players.
func (w *World) Players() []*Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Player, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	return out
}

// PlayerCount returns the number of connected players, for the Status response.
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}
