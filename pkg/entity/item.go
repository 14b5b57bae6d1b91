package entity

import (
	"time"

	"github.com/google/uuid"
)

// ItemEntity is a dropped item stack in the world (spec.md §3). Identity is
// the pair (ID, UUID); ID is the wire entity id, UUID the client-visible
// entity UUID sent on spawn.
type ItemEntity struct {
	ID       uint32
	UUID     uuid.UUID
	Position Vec3
	Velocity Vec3
	ItemID   uint32
	Count    uint8

	SpawnTime       time.Time
	LastUpdateTime  time.Time
	PickupDelay     float32 // seconds before this entity is eligible for pickup
}

// DefaultPickupDelay matches vanilla's default item-entity pickup delay.
const DefaultPickupDelay float32 = 0.5

// Pickable reports whether now is far enough past SpawnTime for this entity
// to be picked up.
func (e *ItemEntity) Pickable(now time.Time) bool {
	return now.Sub(e.SpawnTime).Seconds() >= float64(e.PickupDelay)
}
