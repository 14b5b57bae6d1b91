package session

import "testing"

func TestSpawnLoadingRadius(t *testing.T) {
	if got := spawnLoadingRadius(10); got != 12 {
		t.Errorf("spawnLoadingRadius(10) = %d, want 12", got)
	}
}
