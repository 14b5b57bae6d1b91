package session

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// offlineUUID derives a player UUID the way vanilla offline-mode servers do:
// a version-3 (name-based) UUID computed directly over "OfflinePlayer:<name>",
// mirroring Java's UUID.nameUUIDFromBytes rather than uuid.NewMD5's
// namespace-prefixed variant.
func offlineUUID(username string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + username))
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	id, _ := uuid.FromBytes(sum[:])
	return id
}
