package testutil

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

// MockFile represents an entry in the mock filesystem.
type MockFile struct {
	Size        int64
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Paths are absolute and use forward slashes.
type MockFilesystemManager struct {
	mu    sync.Mutex
	files map[string]*MockFile

	// WalkErr, when set, is yielded after every entry has been produced.
	WalkErr error
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files: make(map[string]*MockFile),
	}
}

// AddFile adds a regular file, creating missing parent directories.
func (m *MockFilesystemManager) AddFile(path string, size int64, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path, modTime)
	m.files[path] = &MockFile{Size: size, ModTime: modTime}
}

// AddDirectory adds a directory, creating missing parent directories.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Unix(0, 0)
	m.addParents(path, now)
	m.files[path] = &MockFile{ModTime: now, IsDirectory: true}
}

// Remove deletes path and everything below it.
func (m *MockFilesystemManager) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := range m.files {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(m.files, p)
		}
	}
}

func (m *MockFilesystemManager) addParents(path string, modTime time.Time) {
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = &MockFile{ModTime: modTime, IsDirectory: true}
		}
	}
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*pulse.Path, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	absPath := filepath.Clean(rawPath)
	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("resolving %s: %w", rawPath, pulse.ErrIO)
	}
	if !file.IsDirectory {
		return nil, fmt.Errorf("%s is not a directory", absPath)
	}
	return pulse.NewPath(absPath, &mockFileInfo{name: filepath.Base(absPath), file: file}), nil
}

// Walk yields every entry below root in lexical path order, which matches
// the order a depth-first walk over sorted directory listings produces.
func (m *MockFilesystemManager) Walk(ctx context.Context, root *pulse.Path, progress chan<- model.Progress) iter.Seq2[pulse.RawEntry, error] {
	return func(yield func(pulse.RawEntry, error) bool) {
		m.mu.Lock()
		prefix := root.String() + "/"
		var paths []string
		for p := range m.files {
			if strings.HasPrefix(p, prefix) {
				paths = append(paths, p)
			}
		}
		slices.SortFunc(paths, func(a, b string) int {
			return slices.Compare(strings.Split(a, "/"), strings.Split(b, "/"))
		})
		entries := make([]pulse.RawEntry, 0, len(paths))
		for _, p := range paths {
			f := m.files[p]
			e := pulse.RawEntry{Path: p, Modified: f.ModTime.Unix(), IsDir: f.IsDirectory}
			if !f.IsDirectory {
				e.Size = f.Size
			}
			entries = append(entries, e)
		}
		walkErr := m.WalkErr
		m.mu.Unlock()

		var scanned, total int64
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				yield(pulse.RawEntry{}, err)
				return
			}
			scanned++
			total += e.Size
			if progress != nil {
				select {
				case progress <- model.Progress{FilesScanned: scanned, CurrentPath: e.Path, TotalSize: total}:
				default:
				}
			}
			if !yield(e, nil) {
				return
			}
		}
		if walkErr != nil {
			yield(pulse.RawEntry{}, walkErr)
		}
	}
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name string
	file *MockFile
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return i.file.Size }
func (i *mockFileInfo) ModTime() time.Time { return i.file.ModTime }
func (i *mockFileInfo) IsDir() bool        { return i.file.IsDirectory }
func (i *mockFileInfo) Sys() any           { return i.file }
func (i *mockFileInfo) Mode() fs.FileMode {
	if i.file.IsDirectory {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

// Compile-time check
var _ pulse.FilesystemManager = (*MockFilesystemManager)(nil)
