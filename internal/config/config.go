package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// DefaultProgressInterval is the number of entries between progress reports.
const DefaultProgressInterval = 100

// DefaultIgnore lists the volume housekeeping directories that operating
// systems create at a drive's top level.
var DefaultIgnore = []string{
	"/System Volume Information/",
	"/$RECYCLE.BIN/",
	"/.Trashes/",
	"/.Spotlight-V100/",
	"/.fseventsd/",
}

// Config represents the main configuration for pulse.
type Config struct {
	HostID     string           `toml:"host_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // stderr threshold: debug, info, warn or error
	Store      StoreConfig      `toml:"store"`
	Encryption EncryptionConfig `toml:"encryption"`
	Database   DatabaseConfig   `toml:"database"`
	Scan       ScanConfig       `toml:"scan"`
}

// StoreConfig selects where snapshots are kept.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type        string `toml:"type"`                   // "filesystem" or "memory"
	SnapshotDir string `toml:"snapshot_dir,omitempty"` // only used for type=filesystem
}

// EncryptionConfig selects the cipher used to seal new snapshots.
type EncryptionConfig struct {
	Type          string `toml:"type"`                      // "aesgcm" (default) or "age"
	AgeWorkFactor int    `toml:"age_work_factor,omitempty"` // scrypt log2 work factor; 0 keeps the age default
}

// DatabaseConfig represents configuration for the operation history database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ScanConfig holds tree walker settings.
type ScanConfig struct {
	ProgressInterval int      `toml:"progress_interval"`
	FollowSymlinks   bool     `toml:"follow_symlinks"`
	Ignore           []string `toml:"ignore"`
}

// NewConfig creates a Config with every location derived from baseDir.
func NewConfig(hostID, baseDir string) *Config {
	return &Config{
		HostID:   hostID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Store: StoreConfig{
			Type:        "filesystem",
			SnapshotDir: filepath.Join(baseDir, "store"),
		},
		Encryption: EncryptionConfig{Type: "aesgcm"},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Scan: ScanConfig{
			ProgressInterval: DefaultProgressInterval,
			Ignore:           slices.Clone(DefaultIgnore),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Scan.ProgressInterval <= 0 {
		cfg.Scan.ProgressInterval = DefaultProgressInterval
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
