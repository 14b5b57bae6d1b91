package session

import (
	"net"
	"sync"

	"github.com/StoreStation/vibecraft773/pkg/entity"
	"github.com/StoreStation/vibecraft773/pkg/protocol"
	"github.com/StoreStation/vibecraft773/pkg/world"
	"github.com/google/uuid"
)

// Inventory slot ranges, the standard 46-slot scheme (spec.md §3).
const (
	SlotCraftingOutput = 0
	SlotCraftingInput  = 1 // .. 4
	SlotArmor          = 5 // .. 8
	SlotMainStart      = 9
	SlotMainEnd        = 35
	SlotHotbarStart    = 36
	SlotHotbarEnd      = 44
	SlotOffhand        = 45

	InventorySize = 46
	MaxStackSize  = 64
)

// Player is the server-side view of a connected client (spec.md §3).
type Player struct {
	EntityID uint32
	UUID     uuid.UUID
	Username string

	Position entity.Vec3
	Yaw      float32
	Pitch    float32
	GameMode byte

	ChunkX, ChunkZ int32
	LoadedChunks   map[world.ChunkPos]bool

	Inventory        [InventorySize]protocol.Slot
	InventoryStateID uint32
	SelectedHotbar   int32
	CursorItem       protocol.Slot

	Conn    net.Conn
	writeMu sync.Mutex

	mu sync.Mutex
}

// NewPlayer builds a Player for a freshly authenticated connection.
func NewPlayer(entityID uint32, id uuid.UUID, username string, conn net.Conn) *Player {
	return &Player{
		EntityID:     entityID,
		UUID:         id,
		Username:     username,
		LoadedChunks: make(map[world.ChunkPos]bool),
		Conn:         conn,
	}
}

// WritePacket sends pkt under the player's writer mutex, serializing access
// across the session handler, chunk scheduler, and keep-alive threads
// (spec.md §4.8, §5).
func (p *Player) WritePacket(pkt *protocol.Packet) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return protocol.WritePacket(p.Conn, pkt)
}

// HeldSlot returns the absolute inventory index of the selected hotbar slot.
func (p *Player) HeldSlot() int {
	return SlotHotbarStart + int(p.SelectedHotbar)
}

// findStackSlot returns the first slot in [9, 44] already holding itemID with
// room for more, per the slot-packing policy (spec.md §4.9).
func (p *Player) findStackSlot(itemID int32) (int, bool) {
	for i := SlotMainStart; i <= SlotHotbarEnd; i++ {
		s := p.Inventory[i]
		if !s.Empty() && s.ItemID == itemID && s.Count < MaxStackSize {
			return i, true
		}
	}
	return 0, false
}

func (p *Player) firstEmptyIn(lo, hi int) (int, bool) {
	for i := lo; i <= hi; i++ {
		if p.Inventory[i].Empty() {
			return i, true
		}
	}
	return 0, false
}

// ErrInventoryFull is returned by PickUp when no slot can accept the item.
var ErrInventoryFull = errInventoryFull{}

type errInventoryFull struct{}

func (errInventoryFull) Error() string { return "session: inventory full" }

// PickUp applies the slot-packing policy for count units of itemID, mutating
// the player's inventory and bumping InventoryStateID. Returns the slot index
// touched, for building the resulting Set Container Slot packet.
func (p *Player) PickUp(itemID int32, count int32) (slotIndex int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if slot, ok := p.findStackSlot(itemID); ok {
		room := MaxStackSize - p.Inventory[slot].Count
		add := count
		if add > room {
			add = room
		}
		p.Inventory[slot].Count += add
		p.InventoryStateID++
		return slot, nil
	}
	if slot, ok := p.firstEmptyIn(SlotHotbarStart, SlotHotbarEnd); ok {
		p.Inventory[slot] = protocol.Slot{Count: count, ItemID: itemID}
		p.InventoryStateID++
		return slot, nil
	}
	if slot, ok := p.firstEmptyIn(SlotMainStart, SlotMainEnd); ok {
		p.Inventory[slot] = protocol.Slot{Count: count, ItemID: itemID}
		p.InventoryStateID++
		return slot, nil
	}
	return 0, ErrInventoryFull
}
