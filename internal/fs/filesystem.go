package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"drivepulse/internal/config"
	"drivepulse/internal/pulse"
)

// OSFilesystemManager is the real filesystem implementation of
// pulse.FilesystemManager.
type OSFilesystemManager struct {
	ignore           []string
	followSymlinks   bool
	progressInterval int
	logger           pulse.Logger
}

// Option configures an OSFilesystemManager.
type Option func(*OSFilesystemManager)

// WithFollowSymlinks makes the walker describe and descend into symlink
// targets instead of recording the links themselves.
func WithFollowSymlinks(follow bool) Option {
	return func(m *OSFilesystemManager) { m.followSymlinks = follow }
}

// WithProgressInterval sets how many entries pass between progress reports.
func WithProgressInterval(n int) Option {
	return func(m *OSFilesystemManager) {
		if n > 0 {
			m.progressInterval = n
		}
	}
}

// WithLogger sets the logger used for skipped entries.
func WithLogger(l pulse.Logger) Option {
	return func(m *OSFilesystemManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem. ignore holds patterns applied to every scan in addition
// to the root's ignore file.
func NewOSFilesystemManager(ignore []string, opts ...Option) *OSFilesystemManager {
	m := &OSFilesystemManager{
		ignore:           ignore,
		progressInterval: config.DefaultProgressInterval,
		logger:           pulse.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolve validates a raw scan root and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*pulse.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w: %w", err, pulse.ErrIO)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root is not a directory: %s", absPath)
	}

	return pulse.NewPath(absPath, info), nil
}

var _ pulse.FilesystemManager = (*OSFilesystemManager)(nil)
