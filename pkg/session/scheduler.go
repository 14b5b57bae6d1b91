package session

import (
	"bytes"
	"sort"

	"github.com/StoreStation/vibecraft773/pkg/protocol"
	"github.com/StoreStation/vibecraft773/pkg/world"
)

type loadBatch struct {
	chunks []world.ChunkPos
	center world.ChunkPos
}

type unloadBatch struct {
	chunks []world.ChunkPos
}

// ChunkLoader is the per-session single-producer/single-consumer chunk
// worker (spec.md §4.9). The session handler is the sole producer; Run's
// goroutine is the sole consumer.
type ChunkLoader struct {
	loadCh   chan loadBatch
	unloadCh chan unloadBatch

	world  *World
	player *Player
}

// NewChunkLoader builds a loader that fills chunks from w and streams them
// to p over p's shared writer.
func NewChunkLoader(w *World, p *Player) *ChunkLoader {
	return &ChunkLoader{
		loadCh:   make(chan loadBatch, 8),
		unloadCh: make(chan unloadBatch, 8),
		world:    w,
		player:   p,
	}
}

// Enqueue schedules a load batch, sorted by Manhattan distance from center
// (spec.md §4.9 step 1). Non-blocking: a full queue drops the batch and
// unmarks its chunks on the player, so the next movement update that crosses
// a chunk boundary re-requests anything still in range.
func (c *ChunkLoader) Enqueue(chunks []world.ChunkPos, center world.ChunkPos) {
	sort.Slice(chunks, func(i, j int) bool {
		return manhattanChunks(chunks[i], center) < manhattanChunks(chunks[j], center)
	})
	select {
	case c.loadCh <- loadBatch{chunks: chunks, center: center}:
	default:
		c.player.mu.Lock()
		for _, pos := range chunks {
			delete(c.player.LoadedChunks, pos)
		}
		c.player.mu.Unlock()
	}
}

// Unload marks chunks as not loaded for the player. World block data is
// untouched (spec.md §4.9: "it does not free block data from the world").
func (c *ChunkLoader) Unload(chunks []world.ChunkPos) {
	select {
	case c.unloadCh <- unloadBatch{chunks: chunks}:
	default:
	}
}

func manhattanChunks(a, b world.ChunkPos) int32 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dz := a.Z - b.Z
	if dz < 0 {
		dz = -dz
	}
	return dx + dz
}

// Run drains both queues until stop is closed.
func (c *ChunkLoader) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case batch := <-c.loadCh:
			c.runLoad(stop, batch)
		case batch := <-c.unloadCh:
			c.runUnload(batch)
		}
	}
}

func (c *ChunkLoader) runLoad(stop <-chan struct{}, batch loadBatch) {
	for _, pos := range batch.chunks {
		select {
		case <-stop:
			return
		default:
		}

		if !c.world.Blocks.IsChunkLoaded(pos.X, pos.Z) {
			c.world.Blocks.LoadChunk(pos.X, pos.Z, 64, world.NoiseMode)
		}

		body := world.SerializeChunk(c.world.Blocks, pos.X, pos.Z)
		pkt := &protocol.Packet{ID: protocol.ChunkDataAndUpdateLightOut, Data: body}
		if err := c.player.WritePacket(pkt); err != nil {
			return
		}
	}

	centerPkt := protocol.MarshalPacket(protocol.SetCenterChunkOut, func(w *bytes.Buffer) {
		protocol.WriteVarInt(w, batch.center.X)
		protocol.WriteVarInt(w, batch.center.Z)
	})
	c.player.WritePacket(centerPkt)
}

func (c *ChunkLoader) runUnload(batch unloadBatch) {
	c.player.mu.Lock()
	for _, pos := range batch.chunks {
		delete(c.player.LoadedChunks, pos)
	}
	c.player.mu.Unlock()
}
