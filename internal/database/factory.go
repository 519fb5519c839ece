package database

import (
	"fmt"
	"path/filepath"

	"drivepulse/internal/config"
	"drivepulse/internal/pulse"
)

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, hostID string) (pulse.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		return open(filepath.Join(cfg.DataDir, hostID+".db"))
	case "memory":
		return open(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %q", cfg.Type)
	}
}

// open avoids returning a typed nil inside the interface on failure.
func open(path string) (pulse.Database, error) {
	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	return db, nil
}
