// Package server owns the TCP listener and process lifecycle: it accepts
// connections and hands each one to pkg/session, which runs the protocol
// state machine end to end.
package server

import (
	"fmt"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/StoreStation/vibecraft773/pkg/registry"
	"github.com/StoreStation/vibecraft773/pkg/session"
	"github.com/StoreStation/vibecraft773/pkg/world"
)

// Gamemode constants matching the protocol's Login(play)/Game Event values.
const (
	GameModeSurvival  byte = 0
	GameModeCreative  byte = 1
	GameModeAdventure byte = 2
	GameModeSpectator byte = 3
)

// ViewDistance is the default view/simulation distance in chunks; sessions
// stream chunks out to ViewDistance+2 around a player.
const ViewDistance = 10

// Config holds server configuration.
type Config struct {
	Address         string
	MaxPlayers      int
	MOTD            string
	Seed            int64
	DefaultGameMode byte
	ViewDistance    int32
	DataDir         string
}

// DefaultConfig returns a default server configuration.
func DefaultConfig() Config {
	return Config{
		Address:      ":25565",
		MaxPlayers:   20,
		MOTD:         "A vibecraft773 server",
		ViewDistance: ViewDistance,
		DataDir:      "extracted_data",
	}
}

// Server accepts connections and dispatches them into the session package.
type Server struct {
	config   Config
	listener net.Listener
	world    *session.World

	mu     sync.Mutex
	stopCh chan struct{}
}

// New builds a Server from config, loading the registry from config.DataDir
// and seeding the terrain generator.
func New(config Config) *Server {
	seed := config.Seed
	if seed == 0 {
		seed = 1
	}
	reg := registry.Load(config.DataDir)
	gen := world.NewGenerator(world.DefaultGeneratorConfig(seed))
	w := session.NewWorld(reg, gen, config.ViewDistance, config.DefaultGameMode)

	log.Printf("world seed: %d", seed)
	return &Server{
		config: config,
		world:  w,
		stopCh: make(chan struct{}),
	}
}

// Start begins listening for connections and runs the world's entity tick
// loop. Returns once the listener is bound; serving happens in background
// goroutines.
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	log.Printf("server listening on %s", s.config.Address)

	go s.world.Entities.Run(s.stopCh)
	go s.acceptLoop()
	return nil
}

// Stop shuts down the server: it signals the entity tick loop to stop,
// closes the listener, and closes the connection of every player in the Play
// state. It returns without waiting for those goroutines to exit.
func (s *Server) Stop() {
	close(s.stopCh)
	if s.listener != nil {
		s.listener.Close()
	}
	for _, p := range s.world.Players() {
		p.Conn.Close()
	}
}

// StopChan exposes the internal shutdown signal, for callers that want to
// select on it alongside an OS signal.
func (s *Server) StopChan() <-chan struct{} {
	return s.stopCh
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				log.Printf("accept error: %v", err)
				continue
			}
		}
		go session.Serve(conn, s.world, s.config.MOTD, s.config.MaxPlayers)
	}
}

// GameModeName renders a gamemode byte as its display name, or Unknown(n).
func GameModeName(mode byte) string {
	switch mode {
	case GameModeSurvival:
		return "Survival"
	case GameModeCreative:
		return "Creative"
	case GameModeAdventure:
		return "Adventure"
	case GameModeSpectator:
		return "Spectator"
	default:
		return fmt.Sprintf("Unknown(%d)", mode)
	}
}

// ParseGameMode accepts a game mode's name (case-insensitive), its short
// letter form, or its numeric id, for the -default-gamemode flag.
func ParseGameMode(s string) (byte, bool) {
	switch strings.ToLower(s) {
	case "survival", "s", "0":
		return GameModeSurvival, true
	case "creative", "c", "1":
		return GameModeCreative, true
	case "adventure", "a", "2":
		return GameModeAdventure, true
	case "spectator", "sp", "3":
		return GameModeSpectator, true
	default:
		return 0, false
	}
}
