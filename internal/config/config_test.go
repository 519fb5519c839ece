package config

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		HostID:     "test-host-abc",
		BaseDir:    "/home/user/.local/share/pulse",
		LogDir:     "/home/user/.local/share/pulse/log",
		LogLevel:   "debug",
		Store:      StoreConfig{Type: "filesystem", SnapshotDir: "/mnt/backup/snapshots"},
		Encryption: EncryptionConfig{Type: "age", AgeWorkFactor: 16},
		Database:   DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/pulse/db"},
		Scan: ScanConfig{
			ProgressInterval: 250,
			FollowSymlinks:   true,
			Ignore:           []string{"*.tmp", ".cache"},
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.HostID != original.HostID {
		t.Errorf("HostID = %q, want %q", got.HostID, original.HostID)
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", got.LogLevel, "debug")
	}
	if got.Store != original.Store {
		t.Errorf("Store = %+v, want %+v", got.Store, original.Store)
	}
	if got.Encryption != original.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, original.Encryption)
	}
	if got.Database != original.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.Scan.ProgressInterval != 250 {
		t.Errorf("Scan.ProgressInterval = %d, want 250", got.Scan.ProgressInterval)
	}
	if !got.Scan.FollowSymlinks {
		t.Error("Scan.FollowSymlinks = false, want true")
	}
	if len(got.Scan.Ignore) != 2 {
		t.Fatalf("len(Scan.Ignore) = %d, want 2", len(got.Scan.Ignore))
	}
}

func TestManager_Read_DefaultsProgressInterval(t *testing.T) {
	m := &Manager{}
	got, err := m.Read(strings.NewReader("host_id = \"h\"\n[scan]\nfollow_symlinks = false\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Scan.ProgressInterval != DefaultProgressInterval {
		t.Errorf("Scan.ProgressInterval = %d, want %d", got.Scan.ProgressInterval, DefaultProgressInterval)
	}
}

func TestManager_Read_Invalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("host_id = ")); err == nil {
		t.Fatal("Read() expected error for malformed toml")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("host-1", "/data/pulse")

	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"HostID", cfg.HostID, "host-1"},
		{"BaseDir", cfg.BaseDir, "/data/pulse"},
		{"LogDir", cfg.LogDir, "/data/pulse/log"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"Store.Type", cfg.Store.Type, "filesystem"},
		{"Store.SnapshotDir", cfg.Store.SnapshotDir, "/data/pulse/store"},
		{"Encryption.Type", cfg.Encryption.Type, "aesgcm"},
		{"Database.Type", cfg.Database.Type, "sqlite"},
		{"Database.DataDir", cfg.Database.DataDir, "/data/pulse/db"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
	if cfg.Scan.ProgressInterval != DefaultProgressInterval {
		t.Errorf("Scan.ProgressInterval = %d, want %d", cfg.Scan.ProgressInterval, DefaultProgressInterval)
	}
	if !slices.Equal(cfg.Scan.Ignore, DefaultIgnore) {
		t.Errorf("Scan.Ignore = %v, want %v", cfg.Scan.Ignore, DefaultIgnore)
	}
	cfg.Scan.Ignore[0] = "changed"
	if DefaultIgnore[0] == "changed" {
		t.Error("NewConfig shares its ignore list with DefaultIgnore")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "pulse.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pulse.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pulse.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.HostID != "read-test" {
			t.Errorf("HostID = %q, want %q", got.HostID, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/pulse.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
