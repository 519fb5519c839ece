package pulse

import (
	"time"

	"drivepulse/internal/model"
)

// Assembler folds walk results into a Snapshot.
type Assembler struct {
	root    string
	clock   Clock
	ids     IDGenerator
	started time.Time

	files      []model.FileEntry
	totalFiles int64
	totalSize  int64
}

// NewAssembler starts timing a scan of root.
func NewAssembler(root string, clock Clock, ids IDGenerator) *Assembler {
	return &Assembler{
		root:    root,
		clock:   clock,
		ids:     ids,
		started: clock.Now(),
	}
}

// Add appends one entry. Only non-directory entries count toward the totals.
func (a *Assembler) Add(e RawEntry) {
	a.files = append(a.files, e)
	if !e.IsDir {
		a.totalFiles++
		a.totalSize += e.Size
	}
}

// Finish stamps completion time and duration, then assigns the snapshot ID.
func (a *Assembler) Finish() *model.Snapshot {
	finished := a.clock.Now()
	duration := finished.Sub(a.started)
	if duration < 0 {
		duration = 0
	}

	return &model.Snapshot{
		ID:           a.ids.New(),
		DrivePath:    a.root,
		Timestamp:    finished.Unix(),
		TotalFiles:   a.totalFiles,
		TotalSize:    a.totalSize,
		ScanDuration: int64(duration / time.Second),
		Files:        a.files,
	}
}
