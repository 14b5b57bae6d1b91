package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"sync/atomic"
	"time"

	"github.com/StoreStation/vibecraft773/pkg/protocol"
)

// playerConn is the subset of net.Conn the handshake/login/configuration
// helpers need, so they can be exercised without a real socket in tests.
type playerConn interface {
	io.Reader
	io.Writer
}

// Session is the per-connection state machine (spec.md §4.8): owns the
// connection state, the player, the chunk loader, and the keep-alive timer.
type Session struct {
	conn  net.Conn
	world *World
	motd  string

	state   int32
	player  *Player
	loader  *ChunkLoader

	keepAliveStop     chan struct{}
	loaderStop        chan struct{}
	expectedKeepAlive atomic.Int64
}

// Serve drives one connection through Handshaking -> {Status, Login} ->
// Configuration -> Play, mirroring the teacher's handleConnection
// state-switch idiom. Blocks until the connection ends.
func Serve(conn net.Conn, w *World, motd string, maxPlayers int) {
	defer conn.Close()

	s := &Session{conn: conn, world: w, motd: motd}
	s.state = protocol.StateHandshaking

	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		pkt, err := protocol.ReadPacket(conn)
		if err != nil {
			return
		}

		switch s.state {
		case protocol.StateHandshaking:
			if pkt.ID != protocol.HandshakeIn {
				log.Printf("session: unexpected packet %d in Handshaking", pkt.ID)
				continue
			}
			next, err := handleHandshake(pkt)
			if err != nil {
				log.Printf("session: handshake error: %v", err)
				return
			}
			s.state = next

		case protocol.StateStatus:
			switch pkt.ID {
			case protocol.StatusRequestIn:
				s.handleStatusRequest(maxPlayers)
			case protocol.PingIn:
				s.handlePing(pkt)
				return
			default:
				log.Printf("session: unexpected packet %d in Status", pkt.ID)
			}

		case protocol.StateLogin:
			switch pkt.ID {
			case protocol.LoginStartIn:
				if err := s.handleLoginStart(pkt); err != nil {
					log.Printf("session: login error: %v", err)
					return
				}
			case protocol.LoginAcknowledgedIn:
				s.state = protocol.StateConfiguration
			default:
				log.Printf("session: unexpected packet %d in Login", pkt.ID)
			}

		case protocol.StateConfiguration:
			if err := s.handleConfigurationPacket(pkt); err != nil {
				return
			}
			if s.state == protocol.StatePlay {
				s.runPlay()
				return
			}
		}
	}
}

func handleHandshake(pkt *protocol.Packet) (int32, error) {
	r := bytes.NewReader(pkt.Data)

	if _, _, err := protocol.ReadVarInt(r); err != nil { // protocol version
		return 0, err
	}
	if _, err := protocol.ReadString(r); err != nil { // server address
		return 0, err
	}
	if _, err := protocol.ReadUint16(r); err != nil { // server port
		return 0, err
	}
	intent, _, err := protocol.ReadVarInt(r)
	if err != nil {
		return 0, err
	}

	switch intent {
	case 1:
		return protocol.StateStatus, nil
	case 2, 3:
		return protocol.StateLogin, nil
	default:
		return 0, fmt.Errorf("session: unknown handshake intent %d", intent)
	}
}

func (s *Session) handleStatusRequest(maxPlayers int) {
	resp := map[string]any{
		"version": map[string]any{
			"name":     "1.21.10",
			"protocol": protocol.ProtocolVersion,
		},
		"players": map[string]any{
			"max":    maxPlayers,
			"online": s.world.PlayerCount(),
		},
		"description": map[string]any{"text": s.motd},
	}
	body, err := json.Marshal(resp)
	if err != nil {
		log.Printf("session: status marshal error: %v", err)
		return
	}
	pkt := protocol.MarshalPacket(protocol.StatusRequestOut, func(w *bytes.Buffer) {
		protocol.WriteString(w, string(body))
	})
	protocol.WritePacket(s.conn, pkt)
}

func (s *Session) handlePing(pkt *protocol.Packet) {
	r := bytes.NewReader(pkt.Data)
	payload, err := protocol.ReadInt64(r)
	if err != nil {
		return
	}
	resp := protocol.MarshalPacket(protocol.StatusPongOut, func(w *bytes.Buffer) {
		protocol.WriteInt64(w, payload)
	})
	protocol.WritePacket(s.conn, resp)
}

func (s *Session) handleLoginStart(pkt *protocol.Packet) error {
	r := bytes.NewReader(pkt.Data)
	username, err := protocol.ReadString(r)
	if err != nil {
		return err
	}
	if _, err := protocol.ReadUUID(r); err != nil { // client-supplied uuid, ignored (offline mode)
		return err
	}

	id := offlineUUID(username)
	eid := s.world.NewEntityID()
	s.player = NewPlayer(eid, id, username, s.conn)
	s.player.GameMode = s.world.DefaultGameMode

	success := protocol.MarshalPacket(protocol.LoginSuccessOut, func(w *bytes.Buffer) {
		protocol.WriteUUID(w, id)
		protocol.WriteString(w, username)
		protocol.WriteVarInt(w, 0) // no properties
	})
	if err := protocol.WritePacket(s.conn, success); err != nil {
		return err
	}

	log.Printf("session: %s logging in as %s", s.conn.RemoteAddr(), username)
	return nil
}

func (s *Session) handleConfigurationPacket(pkt *protocol.Packet) error {
	switch pkt.ID {
	case protocol.ClientInformationIn:
		return sendKnownPacks(s.conn)
	case protocol.KnownPacksIn:
		if err := sendRegistryData(s.conn); err != nil {
			return err
		}
		return sendFinishConfiguration(s.conn)
	case protocol.AcknowledgeFinishConfigurationIn:
		s.state = protocol.StatePlay
		return nil
	default:
		log.Printf("session: unexpected packet %d in Configuration", pkt.ID)
		return nil
	}
}

// runPlay registers the player, runs the bootstrap sequence, and blocks in
// the gameplay packet loop until the connection drops.
func (s *Session) runPlay() {
	s.world.addPlayer(s.player)
	s.loader = NewChunkLoader(s.world, s.player)

	defer func() {
		if s.keepAliveStop != nil {
			close(s.keepAliveStop)
		}
		if s.loaderStop != nil {
			close(s.loaderStop)
		}
		s.world.removePlayer(s.player)
		log.Printf("session: %s disconnected", s.player.Username)
	}()

	if err := s.runPlayBootstrap(); err != nil {
		log.Printf("session: bootstrap failed for %s: %v", s.player.Username, err)
		return
	}

	for {
		s.conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		pkt, err := protocol.ReadPacket(s.conn)
		if err != nil {
			return
		}
		s.handlePlayPacket(pkt)
	}
}
