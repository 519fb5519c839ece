package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"drivepulse/internal/pulse"
)

// FileSystemStore keeps snapshot objects as files:
//
//	<root>/
//	  snapshots/
//	    <id>.bin    current bodies
//	    <id>.json   legacy text bodies
//	  metadata/
//	    <id>.json   summary sidecars
type FileSystemStore struct {
	root        string
	snapshotDir string
	metadataDir string
}

var _ pulse.Backend = (*FileSystemStore)(nil)

// NewFileSystemStore creates the directory layout under root if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	snapshotDir := filepath.Join(root, "snapshots")
	metadataDir := filepath.Join(root, "metadata")

	for _, dir := range []string{snapshotDir, metadataDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w: %w", dir, err, pulse.ErrIO)
		}
	}

	return &FileSystemStore{
		root:        root,
		snapshotDir: snapshotDir,
		metadataDir: metadataDir,
	}, nil
}

// location returns the directory and file extension used for a kind.
func (s *FileSystemStore) location(kind pulse.ObjectKind) (string, string) {
	switch kind {
	case pulse.KindLegacySnapshot:
		return s.snapshotDir, ".json"
	case pulse.KindSummary:
		return s.metadataDir, ".json"
	default:
		return s.snapshotDir, ".bin"
	}
}

func (s *FileSystemStore) path(kind pulse.ObjectKind, id string) string {
	dir, ext := s.location(kind)
	return filepath.Join(dir, id+ext)
}

// Put writes data atomically (temp file + rename).
func (s *FileSystemStore) Put(kind pulse.ObjectKind, id string, data []byte) error {
	if err := writeFileAtomic(s.path(kind, id), data); err != nil {
		return fmt.Errorf("storing %s %s: %w: %w", kind, id, err, pulse.ErrIO)
	}
	return nil
}

// Get reads an object.
func (s *FileSystemStore) Get(kind pulse.ObjectKind, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(kind, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found: %s: %w", kind, id, pulse.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s %s: %w: %w", kind, id, err, pulse.ErrIO)
	}
	return data, nil
}

// Delete removes an object.
func (s *FileSystemStore) Delete(kind pulse.ObjectKind, id string) error {
	if err := os.Remove(s.path(kind, id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s not found: %s: %w", kind, id, pulse.ErrNotFound)
		}
		return fmt.Errorf("removing %s %s: %w: %w", kind, id, err, pulse.ErrIO)
	}
	return nil
}

// List returns the ids of all objects of a kind. Temp files from
// interrupted writes are ignored.
func (s *FileSystemStore) List(kind pulse.ObjectKind) ([]string, error) {
	dir, ext := s.location(kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w: %w", dir, err, pulse.ErrIO)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		id, ok := strings.CutSuffix(name, ext)
		if !ok || id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ValidateSetup verifies that the store directories are accessible.
func (s *FileSystemStore) ValidateSetup() error {
	for _, dir := range []string{s.root, s.snapshotDir, s.metadataDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("store directory not accessible: %w: %w", err, pulse.ErrIO)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s: %w", dir, pulse.ErrIO)
		}
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the destination directory
// and renames it into place, so readers never observe a partial object.
func writeFileAtomic(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
