package pulse

import (
	"slices"
	"strings"

	"drivepulse/internal/model"
)

// CompareOptions adjusts what Compare considers.
type CompareOptions struct {
	// SkipDirectories leaves directory entries out of every category and
	// out of the unchanged count.
	SkipDirectories bool
}

// Compare classifies every path in before and after. Two entries with the same
// path are unchanged only when both size and modification time are equal.
// Each category is sorted by path; unchanged paths are only counted.
func Compare(before, after *model.Snapshot, opts CompareOptions) *model.ComparisonResult {
	oldByPath := indexEntries(before.Files, opts)
	newByPath := indexEntries(after.Files, opts)

	result := &model.ComparisonResult{
		Snapshot1ID: before.ID,
		Snapshot2ID: after.ID,
		Added:       []model.FileDiff{},
		Deleted:     []model.FileDiff{},
		Modified:    []model.FileDiff{},
	}

	for path, n := range newByPath {
		o, ok := oldByPath[path]
		if !ok {
			result.Added = append(result.Added, model.FileDiff{
				Path:        path,
				Status:      model.StatusAdded,
				NewSize:     ptr(n.Size),
				NewModified: ptr(n.Modified),
			})
			continue
		}
		if o.Size == n.Size && o.Modified == n.Modified {
			result.UnchangedCount++
			continue
		}
		result.Modified = append(result.Modified, model.FileDiff{
			Path:        path,
			Status:      model.StatusModified,
			OldSize:     ptr(o.Size),
			NewSize:     ptr(n.Size),
			OldModified: ptr(o.Modified),
			NewModified: ptr(n.Modified),
		})
	}

	for path, o := range oldByPath {
		if _, ok := newByPath[path]; ok {
			continue
		}
		result.Deleted = append(result.Deleted, model.FileDiff{
			Path:        path,
			Status:      model.StatusDeleted,
			OldSize:     ptr(o.Size),
			OldModified: ptr(o.Modified),
		})
	}

	byPath := func(a, b model.FileDiff) int { return strings.Compare(a.Path, b.Path) }
	slices.SortFunc(result.Added, byPath)
	slices.SortFunc(result.Deleted, byPath)
	slices.SortFunc(result.Modified, byPath)

	return result
}

// indexEntries keys entries by path. A duplicated path keeps its last entry.
func indexEntries(files []model.FileEntry, opts CompareOptions) map[string]model.FileEntry {
	m := make(map[string]model.FileEntry, len(files))
	for _, f := range files {
		if opts.SkipDirectories && f.IsDir {
			continue
		}
		m[f.Path] = f
	}
	return m
}

func ptr(v int64) *int64 { return &v }
