package testutil

import (
	"drivepulse/internal/codec"
	"drivepulse/internal/encryption"
	"drivepulse/internal/pulse"
	"drivepulse/internal/store"
)

// NewTestStore creates a snapshot store over a fresh in-memory backend.
// New snapshots are sealed with AES-GCM; age envelopes can still be opened.
func NewTestStore() (*pulse.SnapshotStore, *store.MemoryStore) {
	backend := store.NewMemoryStore()
	return NewTestStoreWithBackend(backend), backend
}

// NewTestStoreWithBackend creates a snapshot store over backend.
func NewTestStoreWithBackend(backend pulse.Backend) *pulse.SnapshotStore {
	return pulse.NewSnapshotStore(backend, codec.New(), nil,
		encryption.NewAESGCMCipher(),
		encryption.NewAgeCipher(10),
	)
}
