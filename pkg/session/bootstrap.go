package session

import (
	"bytes"
	"log"

	"github.com/StoreStation/vibecraft773/pkg/entity"
	"github.com/StoreStation/vibecraft773/pkg/protocol"
	"github.com/StoreStation/vibecraft773/pkg/world"
)

// registryIDs lists the registry namespaces sent as empty Registry Data
// packets during Configuration. This core never hands real NBT blobs to the
// client (see DESIGN.md); each registry is sent with an empty entry list, so
// no entry carries data.
var registryIDs = []string{
	"minecraft:worldgen/biome",
	"minecraft:dimension_type",
	"minecraft:damage_type",
}

const knownPacksNamespace = "minecraft"
const knownPacksID = "core"
const knownPacksVersion = "1.21.10"

// runConfiguration drives the Configuration state from Client Information
// through Finish Configuration (spec.md §4.2). Returns once Acknowledge
// Finish Configuration is received, or an error on any read/write failure.
func runConfiguration(conn playerConn) error {
	for {
		pkt, err := protocol.ReadPacket(conn)
		if err != nil {
			return err
		}

		switch pkt.ID {
		case protocol.ClientInformationIn:
			if err := sendKnownPacks(conn); err != nil {
				return err
			}
		case protocol.KnownPacksIn:
			if err := sendRegistryData(conn); err != nil {
				return err
			}
			if err := sendFinishConfiguration(conn); err != nil {
				return err
			}
		case protocol.AcknowledgeFinishConfigurationIn:
			return nil
		default:
			// Unknown Configuration packet: logged and ignored.
			log.Printf("session: unexpected packet %d in Configuration", pkt.ID)
		}
	}
}

func sendKnownPacks(conn playerConn) error {
	pkt := protocol.MarshalPacket(protocol.KnownPacksOut, func(w *bytes.Buffer) {
		protocol.WriteVarInt(w, 1)
		protocol.WriteString(w, knownPacksNamespace)
		protocol.WriteString(w, knownPacksID)
		protocol.WriteString(w, knownPacksVersion)
	})
	return protocol.WritePacket(conn, pkt)
}

func sendRegistryData(conn playerConn) error {
	for _, id := range registryIDs {
		pkt := protocol.MarshalPacket(protocol.RegistryDataOut, func(w *bytes.Buffer) {
			protocol.WriteString(w, id)
			protocol.WriteVarInt(w, 0) // no entries: nothing to override client defaults with
		})
		if err := protocol.WritePacket(conn, pkt); err != nil {
			return err
		}
	}
	return nil
}

func sendFinishConfiguration(conn playerConn) error {
	pkt := protocol.MarshalPacket(protocol.FinishConfigurationOut, func(w *bytes.Buffer) {})
	return protocol.WritePacket(conn, pkt)
}

// spawnLoadingRadius returns the chunk radius eagerly loaded at login:
// view_distance + 2, so every visible chunk already has lit neighbors
// (spec.md §4.8 step 6).
func spawnLoadingRadius(viewDistance int32) int32 {
	return viewDistance + 2
}

// runPlayBootstrap emits the Play-state bootstrap sequence in order
// (spec.md §4.8 steps 1-7) and starts the player's chunk loader and
// keep-alive threads.
func (s *Session) runPlayBootstrap() error {
	p := s.player

	loginPkt := protocol.MarshalPacket(protocol.LoginPlayOut, func(w *bytes.Buffer) {
		protocol.WriteInt32(w, int32(p.EntityID))
		protocol.WriteBool(w, false)
		protocol.WriteVarInt(w, 1)
		protocol.WriteString(w, "minecraft:overworld")
		protocol.WriteVarInt(w, 0) // max players, unused by client
		protocol.WriteVarInt(w, s.world.ViewDistance)
		protocol.WriteVarInt(w, s.world.ViewDistance) // simulation distance
		protocol.WriteBool(w, false)                  // reduced debug info
		protocol.WriteBool(w, true)                    // enable respawn screen
		protocol.WriteBool(w, false)                   // limited crafting
		protocol.WriteString(w, "minecraft:overworld")
		protocol.WriteInt64(w, 0)                      // hashed seed
		protocol.WriteUnsignedByte(w, s.world.DefaultGameMode)
		protocol.WriteSignedByte(w, -1) // previous gamemode
		protocol.WriteBool(w, false)    // is debug
		protocol.WriteBool(w, false)    // is flat
		protocol.WriteBool(w, false)    // has death location
		protocol.WriteVarInt(w, 0)      // portal cooldown
		protocol.WriteVarInt(w, 63)     // sea level
		protocol.WriteBool(w, false)    // enforces secure chat
	})
	if err := p.WritePacket(loginPkt); err != nil {
		return err
	}

	posPkt := protocol.MarshalPacket(protocol.SynchronizePlayerPositionOut, func(w *bytes.Buffer) {
		protocol.WriteVarInt(w, 0) // teleport id
		protocol.WriteFloat64(w, 0)
		protocol.WriteFloat64(w, 65)
		protocol.WriteFloat64(w, 0)
		protocol.WriteFloat64(w, 0) // velocity x
		protocol.WriteFloat64(w, 0) // velocity y
		protocol.WriteFloat64(w, 0) // velocity z
		protocol.WriteFloat32(w, 0) // yaw
		protocol.WriteFloat32(w, 0) // pitch
		protocol.WriteInt32(w, 0)   // flags: all absolute
	})
	if err := p.WritePacket(posPkt); err != nil {
		return err
	}
	p.Position = entity.Vec3{X: 0, Y: 65, Z: 0}

	timePkt := protocol.MarshalPacket(protocol.UpdateTimeOut, func(w *bytes.Buffer) {
		protocol.WriteInt64(w, 0)
		protocol.WriteInt64(w, 6000)
		protocol.WriteBool(w, true)
	})
	if err := p.WritePacket(timePkt); err != nil {
		return err
	}

	eventPkt := protocol.MarshalPacket(protocol.GameEventOut, func(w *bytes.Buffer) {
		protocol.WriteUnsignedByte(w, 13)
		protocol.WriteFloat32(w, 0)
	})
	if err := p.WritePacket(eventPkt); err != nil {
		return err
	}

	if err := sendSetCenterChunk(p, 0, 0); err != nil {
		return err
	}

	radius := spawnLoadingRadius(s.world.ViewDistance)
	var initial []world.ChunkPos
	for cx := -radius; cx <= radius; cx++ {
		for cz := -radius; cz <= radius; cz++ {
			pos := world.ChunkPos{X: cx, Z: cz}
			initial = append(initial, pos)
			p.LoadedChunks[pos] = true
		}
	}
	s.loader.Enqueue(initial, world.ChunkPos{})

	s.keepAliveStop = make(chan struct{})
	go runKeepAlive(p, &s.expectedKeepAlive, s.keepAliveStop)

	s.loaderStop = make(chan struct{})
	go s.loader.Run(s.loaderStop)

	return nil
}

func sendSetCenterChunk(p *Player, cx, cz int32) error {
	pkt := protocol.MarshalPacket(protocol.SetCenterChunkOut, func(w *bytes.Buffer) {
		protocol.WriteVarInt(w, cx)
		protocol.WriteVarInt(w, cz)
	})
	return p.WritePacket(pkt)
}
