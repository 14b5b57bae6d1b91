package session

import (
	"bytes"
	"math"
	"math/rand"

	"github.com/StoreStation/vibecraft773/pkg/entity"
	"github.com/StoreStation/vibecraft773/pkg/protocol"
)

const itemEntityTypeName = "minecraft:item"

// spawnItem creates an item entity in the world table and emits the packets
// that let p see it: Spawn Entity plus Set Entity Metadata carrying the slot
// (spec.md §4.8, Player Action status 2/3/4).
func (p *Player) spawnItem(w *World, pos, vel entity.Vec3, itemID int32, count int32) {
	if count <= 0 {
		return
	}
	e := w.Entities.Spawn(pos, vel, uint32(itemID), uint8(count), entity.DefaultPickupDelay)

	typeID, _ := w.Registry.EntityTypeID(itemEntityTypeName)

	spawnPkt := protocol.MarshalPacket(protocol.SpawnEntityOut, func(buf *bytes.Buffer) {
		protocol.WriteVarInt(buf, int32(e.ID))
		protocol.WriteUUID(buf, e.UUID)
		protocol.WriteVarInt(buf, typeID)
		protocol.WriteFloat64(buf, e.Position.X)
		protocol.WriteFloat64(buf, e.Position.Y)
		protocol.WriteFloat64(buf, e.Position.Z)
		protocol.WriteAngle(buf, 0) // pitch
		protocol.WriteAngle(buf, 0) // yaw
		protocol.WriteAngle(buf, 0) // head yaw
		protocol.WriteVarInt(buf, 0) // data
		protocol.WriteLowPrecisionVector(buf, e.Velocity.X, e.Velocity.Y, e.Velocity.Z)
	})
	p.WritePacket(spawnPkt)

	metaBuf := &bytes.Buffer{}
	protocol.WriteVarInt(metaBuf, int32(e.ID))
	mw := protocol.NewMetadataWriter(metaBuf)
	mw.SlotEntry(8, protocol.Slot{Count: count, ItemID: itemID})
	mw.Flush()
	p.WritePacket(&protocol.Packet{ID: protocol.SetEntityMetadataOut, Data: metaBuf.Bytes()})
}

// dropVelocity is the teacher's look-direction throw formula (spec.md §4.8):
// forward-xyz from yaw/pitch, scaled, with a small random spread and a fixed
// upward nudge.
func dropVelocity(yaw, pitch float32, scale, yOffset float64) entity.Vec3 {
	f1 := math.Sin(float64(yaw) * math.Pi / 180.0)
	f2 := math.Cos(float64(yaw) * math.Pi / 180.0)
	f3 := math.Sin(float64(pitch) * math.Pi / 180.0)
	f4 := math.Cos(float64(pitch) * math.Pi / 180.0)

	spread := func() float64 { return (rand.Float64() - 0.5) * 0.02 }

	return entity.Vec3{
		X: -f1*f4*scale + spread(),
		Y: -f3*scale + yOffset,
		Z: f2*f4*scale + spread(),
	}
}

const eyeHeight = 1.52
