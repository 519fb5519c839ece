package store

import (
	"fmt"

	"drivepulse/internal/config"
	"drivepulse/internal/pulse"
)

// NewBackendFromConfig creates a Backend based on the store config type.
func NewBackendFromConfig(cfg config.StoreConfig) (pulse.Backend, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem", "":
		if cfg.SnapshotDir == "" {
			return nil, fmt.Errorf("filesystem store requires snapshot_dir to be set")
		}
		return NewFileSystemStore(cfg.SnapshotDir)
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
}
