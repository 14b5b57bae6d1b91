package session

import (
	"bytes"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/StoreStation/vibecraft773/pkg/entity"
	"github.com/StoreStation/vibecraft773/pkg/protocol"
	"github.com/StoreStation/vibecraft773/pkg/registry"
	"github.com/StoreStation/vibecraft773/pkg/world"
)

// faceNormals maps a Use Item On face id to the block-placement offset
// (spec.md §4.8).
var faceNormals = [6]world.BlockPos{
	{X: 0, Y: -1, Z: 0}, // down
	{X: 0, Y: 1, Z: 0},  // up
	{X: 0, Y: 0, Z: -1}, // north
	{X: 0, Y: 0, Z: 1},  // south
	{X: -1, Y: 0, Z: 0}, // west
	{X: 1, Y: 0, Z: 0},  // east
}

func (s *Session) handlePlayPacket(pkt *protocol.Packet) {
	r := bytes.NewReader(pkt.Data)

	switch pkt.ID {
	case protocol.KeepAliveIn:
		s.handleKeepAliveAck(r)
	case protocol.SetPlayerPositionIn:
		s.handleSetPosition(r, true, false)
	case protocol.SetPlayerPositionRotationIn:
		s.handleSetPosition(r, true, true)
	case protocol.SetPlayerRotationIn:
		s.handleSetPosition(r, false, true)
	case protocol.PlayerActionIn:
		s.handlePlayerAction(r)
	case protocol.ClickContainerIn:
		s.handleClickContainer(r)
	case protocol.SetHeldItemIn:
		s.handleSetHeldItem(r)
	case protocol.UseItemOnIn:
		s.handleUseItemOn(r)
	default:
		// Unknown Play packet: logged, not fatal (spec.md §4.2).
		log.Printf("session: unhandled play packet 0x%02X from %s", pkt.ID, s.player.Username)
	}
}

func (s *Session) handleKeepAliveAck(r *bytes.Reader) {
	id, err := protocol.ReadInt64(r)
	if err != nil {
		return
	}
	if expected := s.expectedKeepAlive.Load(); expected != 0 && id != expected {
		log.Printf("session: keep-alive id mismatch for %s: got %d want %d", s.player.Username, id, expected)
	}
}

func (s *Session) handleSetPosition(r *bytes.Reader, hasPos, hasRot bool) {
	p := s.player
	p.mu.Lock()
	if hasPos {
		x, err := protocol.ReadFloat64(r)
		if err != nil {
			p.mu.Unlock()
			return
		}
		y, err := protocol.ReadFloat64(r)
		if err != nil {
			p.mu.Unlock()
			return
		}
		z, err := protocol.ReadFloat64(r)
		if err != nil {
			p.mu.Unlock()
			return
		}
		p.Position = entity.Vec3{X: x, Y: y, Z: z}
	}
	if hasRot {
		yaw, err := protocol.ReadFloat32(r)
		if err != nil {
			p.mu.Unlock()
			return
		}
		pitch, err := protocol.ReadFloat32(r)
		if err != nil {
			p.mu.Unlock()
			return
		}
		p.Yaw, p.Pitch = yaw, pitch
	}
	pos := p.Position
	p.mu.Unlock()

	if hasPos {
		s.updateChunkLoading(pos)
		s.scanPickups(pos)
	}
}

// updateChunkLoading sends Set Center Chunk and enqueues load/unload work
// when the player's chunk coordinate has changed (spec.md §4.8).
func (s *Session) updateChunkLoading(pos entity.Vec3) {
	p := s.player
	cx, cz := world.ChunkCoords(int32(math.Floor(pos.X)), int32(math.Floor(pos.Z)))

	p.mu.Lock()
	if cx == p.ChunkX && cz == p.ChunkZ {
		p.mu.Unlock()
		return
	}
	p.ChunkX, p.ChunkZ = cx, cz
	p.mu.Unlock()

	radius := spawnLoadingRadius(s.world.ViewDistance)
	keepRadius := radius + 1

	var toLoad []world.ChunkPos
	p.mu.Lock()
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			pos := world.ChunkPos{X: cx + dx, Z: cz + dz}
			if !p.LoadedChunks[pos] {
				p.LoadedChunks[pos] = true
				toLoad = append(toLoad, pos)
			}
		}
	}
	var toUnload []world.ChunkPos
	for pos := range p.LoadedChunks {
		if manhattanChunks(pos, world.ChunkPos{X: cx, Z: cz}) > keepRadius {
			toUnload = append(toUnload, pos)
		}
	}
	p.mu.Unlock()

	sendSetCenterChunk(p, cx, cz)
	if len(toLoad) > 0 {
		s.loader.Enqueue(toLoad, world.ChunkPos{X: cx, Z: cz})
	}
	if len(toUnload) > 0 {
		s.loader.Unload(toUnload)
	}
}

const (
	pickupHorizontalRange = 1.0
	pickupYMin            = -0.5
	pickupYMax            = 1.62
)

// scanPickups implements spec.md §4.7's pickup rule, run after every
// position update.
func (s *Session) scanPickups(pos entity.Vec3) {
	p := s.player
	now := time.Now()

	for _, e := range s.world.Entities.Snapshot() {
		dx := e.Position.X - pos.X
		dz := e.Position.Z - pos.Z
		dy := e.Position.Y - pos.Y
		if math.Abs(dx) > pickupHorizontalRange || math.Abs(dz) > pickupHorizontalRange {
			continue
		}
		if dy <= pickupYMin || dy > pickupYMax {
			continue
		}
		if !e.Pickable(now) {
			continue
		}

		slot, err := p.PickUp(int32(e.ItemID), int32(e.Count))
		if err != nil {
			continue
		}

		pickupPkt := protocol.MarshalPacket(protocol.PickupItemOut, func(w *bytes.Buffer) {
			protocol.WriteVarInt(w, int32(e.ID))
			protocol.WriteVarInt(w, 1)
			protocol.WriteVarInt(w, int32(e.Count))
		})
		p.WritePacket(pickupPkt)

		removePkt := protocol.MarshalPacket(protocol.RemoveEntitiesOut, func(w *bytes.Buffer) {
			protocol.WriteVarInt(w, 1)
			protocol.WriteVarInt(w, int32(e.ID))
		})
		p.WritePacket(removePkt)

		p.mu.Lock()
		stack := p.Inventory[slot]
		stateID := p.InventoryStateID
		p.mu.Unlock()
		slotPkt := protocol.MarshalPacket(protocol.SetContainerSlotOut, func(w *bytes.Buffer) {
			protocol.WriteSignedByte(w, 0) // window id: player inventory
			protocol.WriteVarInt(w, int32(stateID))
			protocol.WriteInt16(w, int16(slot))
			protocol.WriteSlot(w, stack)
		})
		p.WritePacket(slotPkt)

		s.world.Entities.Remove(e.ID)
	}
}

func (s *Session) handlePlayerAction(r *bytes.Reader) {
	status, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	x, y, z, err := protocol.ReadPosition(r)
	if err != nil {
		return
	}
	if _, err := protocol.ReadSignedByte(r); err != nil { // face
		return
	}
	if _, _, err := protocol.ReadVarInt(r); err != nil { // sequence
		return
	}

	switch status {
	case 2:
		s.handleFinishedDigging(x, y, z)
	case 3, 4:
		s.handleDropFromHand(status == 3)
	}
}

func (s *Session) handleFinishedDigging(x, y, z int32) {
	reg := s.world.Registry
	state := s.world.Blocks.GetBlock(x, y, z)
	name, ok := reg.BlockNameByState(state)
	if !ok {
		return
	}

	s.world.Blocks.SetBlock(x, y, z, registry.AirStateID)
	s.player.WritePacket(protocol.MarshalPacket(protocol.BlockUpdateOut, func(w *bytes.Buffer) {
		protocol.WritePosition(w, x, y, z)
		protocol.WriteVarInt(w, int32(registry.AirStateID))
	}))

	itemName, ok := reg.LootDrop(name)
	if !ok {
		return
	}
	itemID, ok := reg.ItemIDByName(itemName)
	if !ok {
		return
	}

	pos := entity.Vec3{X: float64(x) + 0.5, Y: float64(y) + 0.5, Z: float64(z) + 0.5}
	vel := entity.Vec3{
		X: (rand.Float64() - 0.5) * 0.1,
		Y: 0.1,
		Z: (rand.Float64() - 0.5) * 0.1,
	}
	s.player.spawnItem(s.world, pos, vel, itemID, 1)
}

func (s *Session) handleDropFromHand(dropStack bool) {
	p := s.player
	p.mu.Lock()
	slot := p.HeldSlot()
	stack := p.Inventory[slot]
	if stack.Empty() {
		p.mu.Unlock()
		return
	}
	dropCount := int32(1)
	if dropStack {
		dropCount = stack.Count
	}
	stack.Count -= dropCount
	if stack.Count <= 0 {
		p.Inventory[slot] = protocol.Slot{}
	} else {
		p.Inventory[slot] = stack
	}
	p.InventoryStateID++
	pos, yaw, pitch := p.Position, p.Yaw, p.Pitch
	stateID := p.InventoryStateID
	resultSlot := p.Inventory[slot]
	p.mu.Unlock()

	p.WritePacket(protocol.MarshalPacket(protocol.SetContainerSlotOut, func(w *bytes.Buffer) {
		protocol.WriteSignedByte(w, 0)
		protocol.WriteVarInt(w, int32(stateID))
		protocol.WriteInt16(w, int16(slot))
		protocol.WriteSlot(w, resultSlot)
	}))

	eyePos := entity.Vec3{X: pos.X, Y: pos.Y + eyeHeight, Z: pos.Z}
	vel := dropVelocity(yaw, pitch, 0.2, 0.1)
	p.spawnItem(s.world, eyePos, vel, stack.ItemID, dropCount)
}

func (s *Session) handleClickContainer(r *bytes.Reader) {
	if _, err := protocol.ReadSignedByte(r); err != nil { // window id
		return
	}
	stateID, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	slotIdx, err := protocol.ReadInt16(r)
	if err != nil {
		return
	}
	button, err := protocol.ReadSignedByte(r)
	if err != nil {
		return
	}
	mode, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	changedCount, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	type changedSlot struct {
		index int16
		stack protocol.Slot
	}
	changed := make([]changedSlot, 0, changedCount)
	for i := int32(0); i < changedCount; i++ {
		idx, err := protocol.ReadInt16(r)
		if err != nil {
			return
		}
		stack, err := protocol.ReadSlot(r)
		if err != nil {
			return
		}
		changed = append(changed, changedSlot{idx, stack})
	}
	carried, err := protocol.ReadSlot(r)
	if err != nil {
		return
	}

	p := s.player
	p.mu.Lock()
	p.InventoryStateID = uint32(stateID)
	for _, c := range changed {
		if int(c.index) >= 0 && int(c.index) < InventorySize {
			p.Inventory[c.index] = c.stack
		}
	}
	p.CursorItem = carried
	pos, yaw, pitch := p.Position, p.Yaw, p.Pitch
	p.mu.Unlock()

	if mode == 0 && slotIdx == -999 {
		s.throwCursor(button == 1, pos, yaw, pitch)
	} else if mode == 4 {
		s.dropFromSlot(int(slotIdx), button == 1, pos, yaw, pitch)
	}
}

// throwCursor drops the whole cursor stack on button 0, one item on button 1
// (spec.md §4.8's Click Container "mode 0, slot -999" case).
func (s *Session) throwCursor(dropOne bool, pos entity.Vec3, yaw, pitch float32) {
	p := s.player
	p.mu.Lock()
	cursor := p.CursorItem
	if cursor.Empty() {
		p.mu.Unlock()
		return
	}
	count := cursor.Count
	if dropOne {
		count = 1
	}
	p.CursorItem = protocol.Slot{}
	p.mu.Unlock()

	eyePos := entity.Vec3{X: pos.X, Y: pos.Y + eyeHeight, Z: pos.Z}
	vel := dropVelocity(yaw, pitch, 0.2, 0.1)
	p.spawnItem(s.world, eyePos, vel, cursor.ItemID, count)
}

// dropFromSlot drops one item on button 0, the whole stack on button 1
// (spec.md §4.8's Click Container "mode 4" case).
func (s *Session) dropFromSlot(slot int, dropStack bool, pos entity.Vec3, yaw, pitch float32) {
	if slot < 0 || slot >= InventorySize {
		return
	}
	p := s.player
	p.mu.Lock()
	stack := p.Inventory[slot]
	if stack.Empty() {
		p.mu.Unlock()
		return
	}
	dropCount := int32(1)
	if dropStack {
		dropCount = stack.Count
	}
	stack.Count -= dropCount
	if stack.Count <= 0 {
		p.Inventory[slot] = protocol.Slot{}
	} else {
		p.Inventory[slot] = stack
	}
	p.mu.Unlock()

	eyePos := entity.Vec3{X: pos.X, Y: pos.Y + eyeHeight, Z: pos.Z}
	vel := dropVelocity(yaw, pitch, 0.2, 0.1)
	p.spawnItem(s.world, eyePos, vel, stack.ItemID, dropCount)
}

func (s *Session) handleSetHeldItem(r *bytes.Reader) {
	idx, err := protocol.ReadInt16(r)
	if err != nil {
		return
	}
	s.player.mu.Lock()
	s.player.SelectedHotbar = int32(idx)
	s.player.mu.Unlock()
}

func (s *Session) handleUseItemOn(r *bytes.Reader) {
	if _, _, err := protocol.ReadVarInt(r); err != nil { // hand
		return
	}
	x, y, z, err := protocol.ReadPosition(r)
	if err != nil {
		return
	}
	face, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return
	}
	if face < 0 || int(face) >= len(faceNormals) {
		return
	}

	p := s.player
	p.mu.Lock()
	slot := p.HeldSlot()
	stack := p.Inventory[slot]
	p.mu.Unlock()
	if stack.Empty() {
		return
	}

	itemName, ok := s.world.Registry.ItemNameByID(stack.ItemID)
	if !ok {
		return
	}
	state, ok := s.world.Registry.BlockStateByName(itemName)
	if !ok {
		return
	}

	n := faceNormals[face]
	tx, ty, tz := x+n.X, y+n.Y, z+n.Z
	s.world.Blocks.SetBlock(tx, ty, tz, state)

	p.WritePacket(protocol.MarshalPacket(protocol.BlockUpdateOut, func(w *bytes.Buffer) {
		protocol.WritePosition(w, tx, ty, tz)
		protocol.WriteVarInt(w, int32(state))
	}))

	p.mu.Lock()
	stack = p.Inventory[slot]
	stack.Count--
	if stack.Count <= 0 {
		p.Inventory[slot] = protocol.Slot{}
	} else {
		p.Inventory[slot] = stack
	}
	p.InventoryStateID++
	resultSlot := p.Inventory[slot]
	stateID := p.InventoryStateID
	p.mu.Unlock()

	p.WritePacket(protocol.MarshalPacket(protocol.SetContainerSlotOut, func(w *bytes.Buffer) {
		protocol.WriteSignedByte(w, 0)
		protocol.WriteVarInt(w, int32(stateID))
		protocol.WriteInt16(w, int16(slot))
		protocol.WriteSlot(w, resultSlot)
	}))
}
