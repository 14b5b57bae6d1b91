package protocol

import (
	"bytes"
	"fmt"
	"io"
)

// Connection states, in FSM order Handshaking -> {Status, Login} -> Configuration -> Play.
const (
	StateHandshaking = 0
	StateStatus      = 1
	StateLogin       = 2
	StateConfiguration = 3
	StatePlay        = 4
)

// ProtocolVersion is the wire protocol version for Minecraft 1.21.10.
const ProtocolVersion = 773

// MaxPacketLength caps inbound packet bodies (generous; VarInt length prefix
// could in principle claim up to 2^31-1, but no legitimate packet in this
// core approaches even a fraction of this).
const MaxPacketLength = 2 * 1024 * 1024

// Packet ids, by state and direction. Names mirror the spec's packet table.
const (
	HandshakeIn = 0x00

	LoginStartIn        = 0x00
	LoginAcknowledgedIn = 0x03
	LoginSuccessOut     = 0x02

	ClientInformationIn             = 0x00
	AcknowledgeFinishConfigurationIn = 0x03
	KnownPacksIn                    = 0x07
	FinishConfigurationOut          = 0x03
	RegistryDataOut                 = 0x07
	KnownPacksOut                   = 0x0E

	ClickContainerIn             = 0x11
	KeepAliveIn                  = 0x1B
	SetPlayerPositionIn          = 0x1D
	SetPlayerPositionRotationIn  = 0x1E
	SetPlayerRotationIn          = 0x1F
	PlayerActionIn               = 0x28
	SetHeldItemIn                = 0x34
	UseItemOnIn                  = 0x3F

	SpawnEntityOut              = 0x01
	BlockUpdateOut              = 0x08
	SetContainerSlotOut         = 0x14
	GameEventOut                = 0x26
	KeepAliveOut                = 0x2B
	ChunkDataAndUpdateLightOut  = 0x2C
	LoginPlayOut                = 0x30
	SynchronizePlayerPositionOut = 0x46
	RemoveEntitiesOut           = 0x4B
	SetCenterChunkOut           = 0x5C
	SetEntityMetadataOut        = 0x61
	UpdateTimeOut               = 0x6F
	PickupItemOut               = 0x7A
)

// StatusRequestIn and PingIn are Status-state packets. spec.md's packet table
// only enumerates Handshaking/Login/Configuration/Play (its declared core),
// but the Handshake transition rule ("intent 1 -> Status") requires a live
// Status branch; these two ids fill that gap (see SPEC_FULL.md).
const (
	StatusRequestIn = 0x00
	StatusPongOut   = 0x01
	StatusRequestOut = 0x00
	PingIn          = 0x01
)

// Packet is a decoded inbound packet: id plus raw (post-id) body bytes.
type Packet struct {
	ID   int32
	Data []byte
}

// ReadPacket reads one length-prefixed packet: varint(length) || varint(id) || body.
func ReadPacket(r io.Reader) (*Packet, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if length < 1 {
		return nil, fmt.Errorf("protocol: packet length too small: %d", length)
	}
	if length > MaxPacketLength {
		return nil, fmt.Errorf("protocol: packet length too large: %d", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}

	pr := bytes.NewReader(payload)
	id, idLen, err := ReadVarInt(pr)
	if err != nil {
		return nil, err
	}

	return &Packet{ID: id, Data: payload[idLen:]}, nil
}

// WritePacket writes a complete framed packet.
func WritePacket(w io.Writer, p *Packet) error {
	idSize := VarIntSize(p.ID)
	totalLen := int32(idSize + len(p.Data))

	buf := bytes.NewBuffer(make([]byte, 0, VarIntSize(totalLen)+int(totalLen)))
	if _, err := WriteVarInt(buf, totalLen); err != nil {
		return err
	}
	if _, err := WriteVarInt(buf, p.ID); err != nil {
		return err
	}
	buf.Write(p.Data)

	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalPacket builds a Packet from an id and a body-writing closure.
func MarshalPacket(id int32, builder func(w *bytes.Buffer)) *Packet {
	var buf bytes.Buffer
	builder(&buf)
	return &Packet{ID: id, Data: buf.Bytes()}
}
