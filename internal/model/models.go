package model

import (
	"database/sql"
	"time"
)

// FileEntry is one file or directory observed during a scan.
type FileEntry struct {
	Path     string `json:"path"`     // root joined with the path relative to root
	Size     int64  `json:"size"`     // bytes; 0 for directories
	Modified int64  `json:"modified"` // mtime, Unix seconds
	IsDir    bool   `json:"is_dir"`
}

// Snapshot is the full inventory of a directory tree at one point in time.
type Snapshot struct {
	ID           string      `json:"id"`
	DrivePath    string      `json:"drive_path"`
	Timestamp    int64       `json:"timestamp"`     // scan completion, Unix seconds
	TotalFiles   int64       `json:"total_files"`   // non-directory entries only
	TotalSize    int64       `json:"total_size"`    // sum of non-directory sizes
	ScanDuration int64       `json:"scan_duration"` // whole seconds
	Files        []FileEntry `json:"files"`
}

// Summary returns the snapshot's summary fields without the file list.
func (s *Snapshot) Summary() SnapshotSummary {
	return SnapshotSummary{
		ID:           s.ID,
		DrivePath:    s.DrivePath,
		Timestamp:    s.Timestamp,
		TotalFiles:   s.TotalFiles,
		TotalSize:    s.TotalSize,
		ScanDuration: s.ScanDuration,
	}
}

// SnapshotSummary is a Snapshot without its file list, plus storage details.
type SnapshotSummary struct {
	ID           string `json:"id"`
	DrivePath    string `json:"drive_path"`
	Timestamp    int64  `json:"timestamp"`
	TotalFiles   int64  `json:"total_files"`
	TotalSize    int64  `json:"total_size"`
	ScanDuration int64  `json:"scan_duration"`
	Encrypted    bool   `json:"encrypted"`
	Format       string `json:"format,omitempty"`
}

// DiffStatus classifies a path in a comparison.
type DiffStatus string

const (
	StatusAdded     DiffStatus = "added"
	StatusDeleted   DiffStatus = "deleted"
	StatusModified  DiffStatus = "modified"
	StatusUnchanged DiffStatus = "unchanged"
)

// FileDiff describes how one path differs between two snapshots.
// Old fields are nil for added paths, new fields are nil for deleted paths.
type FileDiff struct {
	Path        string     `json:"path"`
	Status      DiffStatus `json:"status"`
	OldSize     *int64     `json:"old_size"`
	NewSize     *int64     `json:"new_size"`
	OldModified *int64     `json:"old_modified"`
	NewModified *int64     `json:"new_modified"`
}

// ComparisonResult is the outcome of comparing snapshot1 (old) to snapshot2 (new).
type ComparisonResult struct {
	Snapshot1ID    string     `json:"snapshot1_id"`
	Snapshot2ID    string     `json:"snapshot2_id"`
	Added          []FileDiff `json:"added"`
	Deleted        []FileDiff `json:"deleted"`
	Modified       []FileDiff `json:"modified"`
	UnchangedCount int64      `json:"unchanged_count"`
}

// Progress is a periodic report emitted while a scan runs.
type Progress struct {
	FilesScanned int64  `json:"files_scanned"`
	CurrentPath  string `json:"current_path"`
	TotalSize    int64  `json:"total_size"`
}

// Operation is one recorded CLI operation.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "running", "success" or "error"
	SnapshotID string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}
