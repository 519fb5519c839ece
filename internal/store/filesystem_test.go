package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"drivepulse/internal/pulse"
)

func TestNewFileSystemStore(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "store")

		if _, err := NewFileSystemStore(root); err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		for _, dir := range []string{"snapshots", "metadata"} {
			if _, err := os.Stat(filepath.Join(root, dir)); err != nil {
				t.Errorf("%s directory not created: %v", dir, err)
			}
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		if _, err := NewFileSystemStore(t.TempDir()); err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
	})
}

func TestFileSystemStore_Layout(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	tests := []struct {
		kind pulse.ObjectKind
		want string
	}{
		{pulse.KindSnapshot, filepath.Join(root, "snapshots", "abc.bin")},
		{pulse.KindLegacySnapshot, filepath.Join(root, "snapshots", "abc.json")},
		{pulse.KindSummary, filepath.Join(root, "metadata", "abc.json")},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if err := s.Put(tt.kind, "abc", []byte(tt.kind.String())); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			data, err := os.ReadFile(tt.want)
			if err != nil {
				t.Fatalf("object not at %s: %v", tt.want, err)
			}
			if string(data) != tt.kind.String() {
				t.Errorf("content = %q, want %q", data, tt.kind.String())
			}
		})
	}
}

func TestFileSystemStore_PutGetOverwrite(t *testing.T) {
	s, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := s.Put(pulse.KindSnapshot, "id1", []byte("first")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Put(pulse.KindSnapshot, "id1", []byte("second")); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	got, err := s.Get(pulse.KindSnapshot, "id1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(s.snapshotDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("snapshot dir has %d entries, want 1 (temp files must not remain)", len(entries))
	}
}

func TestFileSystemStore_NotFound(t *testing.T) {
	s, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if _, err := s.Get(pulse.KindSnapshot, "missing"); !errors.Is(err, pulse.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(pulse.KindSummary, "missing"); !errors.Is(err, pulse.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestFileSystemStore_DeleteTwice(t *testing.T) {
	s, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	if err := s.Put(pulse.KindSnapshot, "gone", []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := s.Delete(pulse.KindSnapshot, "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(pulse.KindSnapshot, "gone"); !errors.Is(err, pulse.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestFileSystemStore_List(t *testing.T) {
	s, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	for _, id := range []string{"b", "a"} {
		if err := s.Put(pulse.KindSnapshot, id, []byte(id)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	if err := s.Put(pulse.KindLegacySnapshot, "old", []byte("{}")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	// Leftovers from an interrupted write and unrelated files are ignored.
	for _, name := range []string{".tmp-123", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(s.snapshotDir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(s.snapshotDir, "dir.bin"), 0700); err != nil {
		t.Fatal(err)
	}

	got, err := s.List(pulse.KindSnapshot)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("List(snapshot) = %v, want [a b]", got)
	}

	legacy, err := s.List(pulse.KindLegacySnapshot)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !slices.Equal(legacy, []string{"old"}) {
		t.Errorf("List(legacy) = %v, want [old]", legacy)
	}
}

func TestFileSystemStore_ValidateSetup(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	if err := s.ValidateSetup(); err != nil {
		t.Fatalf("ValidateSetup() error = %v", err)
	}

	if err := os.RemoveAll(s.metadataDir); err != nil {
		t.Fatal(err)
	}
	if err := s.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error after metadata dir removed")
	}
}
