package pulse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

func snap(id string, files ...model.FileEntry) *model.Snapshot {
	return &model.Snapshot{ID: id, DrivePath: "/mnt", Files: files}
}

func file(path string, size, modified int64) model.FileEntry {
	return model.FileEntry{Path: path, Size: size, Modified: modified}
}

func dir(path string, modified int64) model.FileEntry {
	return model.FileEntry{Path: path, Modified: modified, IsDir: true}
}

func paths(diffs []model.FileDiff) []string {
	out := make([]string, len(diffs))
	for i, d := range diffs {
		out[i] = d.Path
	}
	return out
}

func TestCompare(t *testing.T) {
	t.Run("classifies added, modified and unchanged", func(t *testing.T) {
		before := snap("s1", file("a.txt", 10, 100), file("b.txt", 5, 200))
		after := snap("s2", file("a.txt", 10, 100), file("b.txt", 7, 250), file("c.txt", 1, 300))

		got := pulse.Compare(before, after, pulse.CompareOptions{})

		assert.Equal(t, "s1", got.Snapshot1ID)
		assert.Equal(t, "s2", got.Snapshot2ID)
		assert.Equal(t, []string{"c.txt"}, paths(got.Added))
		assert.Empty(t, got.Deleted)
		require.Len(t, got.Modified, 1)
		assert.EqualValues(t, 1, got.UnchangedCount)

		m := got.Modified[0]
		assert.Equal(t, "b.txt", m.Path)
		assert.Equal(t, model.StatusModified, m.Status)
		assert.EqualValues(t, 5, *m.OldSize)
		assert.EqualValues(t, 7, *m.NewSize)
		assert.EqualValues(t, 200, *m.OldModified)
		assert.EqualValues(t, 250, *m.NewModified)

		a := got.Added[0]
		assert.Equal(t, model.StatusAdded, a.Status)
		assert.Nil(t, a.OldSize)
		assert.Nil(t, a.OldModified)
		assert.EqualValues(t, 1, *a.NewSize)
		assert.EqualValues(t, 300, *a.NewModified)
	})

	t.Run("everything deleted", func(t *testing.T) {
		got := pulse.Compare(snap("s1", file("x.txt", 3, 10)), snap("s2"), pulse.CompareOptions{})

		assert.Equal(t, []string{"x.txt"}, paths(got.Deleted))
		assert.Empty(t, got.Added)
		assert.Empty(t, got.Modified)
		assert.Zero(t, got.UnchangedCount)

		d := got.Deleted[0]
		assert.Equal(t, model.StatusDeleted, d.Status)
		assert.EqualValues(t, 3, *d.OldSize)
		assert.Nil(t, d.NewSize)
		assert.Nil(t, d.NewModified)
	})

	t.Run("mtime change alone is a modification", func(t *testing.T) {
		got := pulse.Compare(snap("s1", file("a", 1, 1)), snap("s2", file("a", 1, 2)), pulse.CompareOptions{})
		assert.Equal(t, []string{"a"}, paths(got.Modified))
		assert.Zero(t, got.UnchangedCount)
	})

	t.Run("categories are sorted by path", func(t *testing.T) {
		before := snap("s1", file("z", 1, 1), file("m", 1, 1), file("d", 1, 1), file("b", 1, 1))
		after := snap("s2", file("y", 1, 1), file("c", 1, 1), file("m", 2, 1), file("b", 2, 1))

		got := pulse.Compare(before, after, pulse.CompareOptions{})

		assert.Equal(t, []string{"c", "y"}, paths(got.Added))
		assert.Equal(t, []string{"d", "z"}, paths(got.Deleted))
		assert.Equal(t, []string{"b", "m"}, paths(got.Modified))
	})

	t.Run("empty snapshots produce empty non-nil categories", func(t *testing.T) {
		got := pulse.Compare(snap("s1"), snap("s2"), pulse.CompareOptions{})
		assert.NotNil(t, got.Added)
		assert.NotNil(t, got.Deleted)
		assert.NotNil(t, got.Modified)
		assert.Zero(t, got.UnchangedCount)
	})

	t.Run("self comparison is all unchanged", func(t *testing.T) {
		s := snap("s1", dir("d", 5), file("d/a", 1, 1), file("d/b", 2, 2))
		got := pulse.Compare(s, s, pulse.CompareOptions{})
		assert.Empty(t, got.Added)
		assert.Empty(t, got.Deleted)
		assert.Empty(t, got.Modified)
		assert.EqualValues(t, 3, got.UnchangedCount)
	})

	t.Run("swapping arguments swaps added and deleted", func(t *testing.T) {
		before := snap("s1", file("a", 1, 1), file("gone", 1, 1), file("chg", 1, 1), file("touched", 4, 7))
		after := snap("s2", file("a", 1, 1), file("new", 1, 1), file("chg", 9, 1), file("touched", 4, 8))

		forward := pulse.Compare(before, after, pulse.CompareOptions{})
		backward := pulse.Compare(after, before, pulse.CompareOptions{})

		assert.Equal(t, paths(forward.Added), paths(backward.Deleted))
		assert.Equal(t, paths(forward.Deleted), paths(backward.Added))
		assert.Equal(t, forward.UnchangedCount, backward.UnchangedCount)

		require.Len(t, forward.Modified, 2)
		require.Len(t, backward.Modified, 2)
		for i, fw := range forward.Modified {
			bw := backward.Modified[i]
			assert.Equal(t, fw.Path, bw.Path)
			assert.Equal(t, fw.OldSize, bw.NewSize, fw.Path)
			assert.Equal(t, fw.NewSize, bw.OldSize, fw.Path)
			assert.Equal(t, fw.OldModified, bw.NewModified, fw.Path)
			assert.Equal(t, fw.NewModified, bw.OldModified, fw.Path)
		}
		assert.EqualValues(t, 9, *backward.Modified[0].OldSize)
		assert.EqualValues(t, 1, *backward.Modified[0].NewSize)
		assert.EqualValues(t, 8, *backward.Modified[1].OldModified)
	})

	t.Run("directories compare like files by default", func(t *testing.T) {
		before := snap("s1", dir("photos", 100), file("photos/a.jpg", 10, 100))
		after := snap("s2", dir("photos", 200), file("photos/a.jpg", 10, 100), dir("music", 50))

		got := pulse.Compare(before, after, pulse.CompareOptions{})

		assert.Equal(t, []string{"music"}, paths(got.Added))
		assert.Equal(t, []string{"photos"}, paths(got.Modified))
		assert.EqualValues(t, 1, got.UnchangedCount)
	})

	t.Run("skip directories", func(t *testing.T) {
		before := snap("s1", dir("photos", 100), file("photos/a.jpg", 10, 100))
		after := snap("s2", dir("photos", 200), file("photos/a.jpg", 10, 100), dir("music", 50))

		got := pulse.Compare(before, after, pulse.CompareOptions{SkipDirectories: true})

		assert.Empty(t, got.Added)
		assert.Empty(t, got.Modified)
		assert.EqualValues(t, 1, got.UnchangedCount)
	})
}
