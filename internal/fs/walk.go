package fs

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

// Walk enumerates every entry below root depth-first, pre-order, in lexical
// order within each directory. See pulse.FilesystemManager for the error
// contract.
func (m *OSFilesystemManager) Walk(ctx context.Context, root *pulse.Path, progress chan<- model.Progress) iter.Seq2[pulse.RawEntry, error] {
	return func(yield func(pulse.RawEntry, error) bool) {
		rootPath := root.String()

		info, err := os.Stat(rootPath)
		if err != nil {
			yield(pulse.RawEntry{}, fmt.Errorf("stat root %s: %w: %w", rootPath, err, pulse.ErrIO))
			return
		}
		if !info.IsDir() {
			yield(pulse.RawEntry{}, fmt.Errorf("scan root is not a directory: %s: %w", rootPath, pulse.ErrIO))
			return
		}

		filePatterns, err := readIgnoreFile(rootPath)
		if err != nil {
			m.logger.Warn("ignoring unreadable ignore file", "root", rootPath, "error", err)
		}

		w := &walker{
			m:        m,
			ctx:      ctx,
			yield:    yield,
			progress: progress,
			matcher:  NewIgnoreMatcher(m.ignore, filePatterns),
			visited:  make(map[fileID]struct{}),
		}
		if id, ok := identity(rootPath, info); ok {
			w.visited[id] = struct{}{}
		}

		if !w.walkDir(rootPath, "", true) {
			return
		}
		w.report()

		if w.skipped > 0 {
			m.logger.Warn("scan skipped unreadable entries", "root", rootPath, "count", w.skipped)
		}
	}
}

type walker struct {
	m        *OSFilesystemManager
	ctx      context.Context
	yield    func(pulse.RawEntry, error) bool
	progress chan<- model.Progress
	matcher  *IgnoreMatcher
	visited  map[fileID]struct{}

	scanned   int64
	totalSize int64
	current   string
	skipped   int
}

// walkDir lists dir and visits its children. It returns false once the
// walk must stop, either because the consumer stopped or an error was
// yielded.
func (w *walker) walkDir(dir, rel string, isRoot bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isRoot {
			w.yield(pulse.RawEntry{}, fmt.Errorf("reading root %s: %w: %w", dir, err, pulse.ErrIO))
			return false
		}
		// ReadDir returns whatever it read before failing.
		w.skip(dir, err)
	}

	for _, de := range entries {
		if err := w.ctx.Err(); err != nil {
			w.yield(pulse.RawEntry{}, err)
			return false
		}

		path := filepath.Join(dir, de.Name())
		relPath := filepath.Join(rel, de.Name())
		// Directory-only rules see the entry's own type, so a link to a
		// directory is matched as a link.
		if w.matcher.Match(relPath, de.IsDir()) {
			continue
		}

		info, err := os.Lstat(path)
		if err != nil {
			w.skip(path, err)
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 && w.m.followSymlinks {
			target, err := os.Stat(path)
			if err != nil {
				w.skip(path, err)
				continue
			}
			info = target
		}

		descend := false
		if info.IsDir() {
			id, ok := identity(path, info)
			_, seen := w.visited[id]
			switch {
			case !ok:
				descend = true
			case seen:
				w.m.logger.Debug("not re-entering visited directory", "path", path)
			default:
				w.visited[id] = struct{}{}
				descend = true
			}
		}

		entry := pulse.RawEntry{
			Path:     path,
			Modified: info.ModTime().Unix(),
			IsDir:    info.IsDir(),
		}
		if !entry.IsDir {
			entry.Size = info.Size()
		}
		if !w.emit(entry) {
			return false
		}

		if descend && !w.walkDir(path, relPath, false) {
			return false
		}
	}
	return true
}

func (w *walker) emit(entry pulse.RawEntry) bool {
	w.scanned++
	if !entry.IsDir {
		w.totalSize += entry.Size
	}
	w.current = entry.Path

	if w.scanned%int64(w.m.progressInterval) == 0 {
		w.report()
	}
	return w.yield(entry, nil)
}

// report sends the current progress without blocking. A full or nil
// channel drops the report.
func (w *walker) report() {
	if w.progress == nil {
		return
	}
	select {
	case w.progress <- model.Progress{
		FilesScanned: w.scanned,
		CurrentPath:  w.current,
		TotalSize:    w.totalSize,
	}:
	default:
	}
}

func (w *walker) skip(path string, err error) {
	w.skipped++
	w.m.logger.Warn("skipping unreadable entry", "path", path, "error", err)
}
