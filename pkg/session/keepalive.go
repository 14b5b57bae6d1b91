package session

import (
	"bytes"
	"log"
	"sync/atomic"
	"time"

	"github.com/StoreStation/vibecraft773/pkg/protocol"
)

const keepAliveInterval = 10 * time.Second

// runKeepAlive sends a Keep Alive every 10s with a monotonic wall-clock-ms
// id, until stop is closed (spec.md §4.10). The client's echoed id is
// checked against expected by the Play packet handler; a mismatch is logged
// there, not here.
func runKeepAlive(p *Player, expected *atomic.Int64, stop <-chan struct{}) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			id := time.Now().UnixMilli()
			expected.Store(id)
			pkt := protocol.MarshalPacket(protocol.KeepAliveOut, func(w *bytes.Buffer) {
				protocol.WriteInt64(w, id)
			})
			if err := p.WritePacket(pkt); err != nil {
				log.Printf("session: keep-alive write failed for %s: %v", p.Username, err)
				return
			}
		}
	}
}
