package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/StoreStation/vibecraft773/pkg/server"
)

func main() {
	address := flag.String("address", ":25565", "Server address to listen on")
	maxPlayers := flag.Int("max-players", 20, "Maximum number of players")
	motd := flag.String("motd", "A vibecraft773 server", "Server MOTD")
	seed := flag.Int64("seed", 0, "World seed (0 = 1)")
	defaultGameMode := flag.String("default-gamemode", "survival", "Default game mode (survival, creative, adventure, spectator)")
	viewDistance := flag.Int("view-distance", server.ViewDistance, "Chunk view/simulation distance")
	dataDir := flag.String("data-dir", "extracted_data", "Directory holding the registry extract JSON files")
	flag.Parse()

	gameMode, ok := server.ParseGameMode(*defaultGameMode)
	if !ok {
		log.Fatalf("invalid default game mode: %s", *defaultGameMode)
	}

	config := server.Config{
		Address:         *address,
		MaxPlayers:      *maxPlayers,
		MOTD:            *motd,
		Seed:            *seed,
		DefaultGameMode: gameMode,
		ViewDistance:    int32(*viewDistance),
		DataDir:         *dataDir,
	}

	srv := server.New(config)
	if err := srv.Start(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	log.Printf("vibecraft773 server started (Minecraft 1.21.10, protocol 773)")
	log.Printf("address: %s | max players: %d | view distance: %d", config.Address, config.MaxPlayers, config.ViewDistance)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutting down server (received signal: %v)...", sig)
	case <-srv.StopChan():
		log.Println("shutting down server (internal)...")
	}

	srv.Stop()
	log.Println("server stopped.")
}
