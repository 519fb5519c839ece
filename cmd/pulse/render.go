package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"drivepulse/internal/export"
	"drivepulse/internal/model"
)

var (
	accent = lipgloss.Color("#7C3AED")
	green  = lipgloss.Color("#10B981")
	muted  = lipgloss.Color("#6B7280")
	amber  = lipgloss.Color("#F59E0B")
	red    = lipgloss.Color("#EF4444")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle    = lipgloss.NewStyle().Foreground(muted)
	idStyle       = lipgloss.NewStyle().Foreground(amber)
	addedStyle    = lipgloss.NewStyle().Foreground(green)
	deletedStyle  = lipgloss.NewStyle().Foreground(red)
	modifiedStyle = lipgloss.NewStyle().Foreground(amber)
	lockStyle     = lipgloss.NewStyle().Foreground(accent).Bold(true)
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(unix int64) string {
	return time.Unix(unix, 0).Format(timeLayout)
}

// renderProgress rewrites a single status line on w until progress is
// closed, then closes done.
func renderProgress(w io.Writer, progress <-chan model.Progress, done chan<- struct{}) {
	defer close(done)
	seen := false
	for p := range progress {
		seen = true
		fmt.Fprintf(w, "\r\033[K%s %d entries, %s  %s",
			titleStyle.Render("Scanning"),
			p.FilesScanned,
			export.FormatSize(p.TotalSize),
			labelStyle.Render(truncate(p.CurrentPath, 60)),
		)
	}
	if seen {
		fmt.Fprint(w, "\r\033[K")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "..." + string(r[len(r)-n+3:])
}

func printSnapshotSummary(w io.Writer, s model.SnapshotSummary) {
	lock := ""
	if s.Encrypted {
		lock = " " + lockStyle.Render("[encrypted]")
	}
	fmt.Fprintf(w, "%s%s\n", idStyle.Render(s.ID), lock)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Path:    "), s.DrivePath)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Scanned: "), formatTime(s.Timestamp))
	fmt.Fprintf(w, "  %s %d (%s)\n", labelStyle.Render("Files:   "), s.TotalFiles, export.FormatSize(s.TotalSize))
	fmt.Fprintf(w, "  %s %ds\n", labelStyle.Render("Duration:"), s.ScanDuration)
	if s.Format != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Format:  "), s.Format)
	}
}

func printSnapshotFiles(w io.Writer, s *model.Snapshot, limit int) {
	fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Entries"))
	for i, f := range s.Files {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "  %s\n", labelStyle.Render(fmt.Sprintf("... and %d more", len(s.Files)-limit)))
			break
		}
		if f.IsDir {
			fmt.Fprintf(w, "  %-10s %s  %s/\n", "<dir>", formatTime(f.Modified), f.Path)
			continue
		}
		fmt.Fprintf(w, "  %-10s %s  %s\n", export.FormatSize(f.Size), formatTime(f.Modified), f.Path)
	}
}

func printComparison(w io.Writer, r *model.ComparisonResult, limit int) {
	fmt.Fprintf(w, "%s %s -> %s\n\n", titleStyle.Render("Comparison"), idStyle.Render(r.Snapshot1ID), idStyle.Render(r.Snapshot2ID))
	fmt.Fprintf(w, "  %s %d\n", addedStyle.Render("Added:    "), len(r.Added))
	fmt.Fprintf(w, "  %s %d\n", deletedStyle.Render("Deleted:  "), len(r.Deleted))
	fmt.Fprintf(w, "  %s %d\n", modifiedStyle.Render("Modified: "), len(r.Modified))
	fmt.Fprintf(w, "  %s %d\n", labelStyle.Render("Unchanged:"), r.UnchangedCount)

	shown := 0
	section := func(title string, style lipgloss.Style, diffs []model.FileDiff, describe func(model.FileDiff) string) {
		if len(diffs) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", style.Bold(true).Render(title))
		for _, d := range diffs {
			if limit > 0 && shown >= limit {
				fmt.Fprintf(w, "  %s\n", labelStyle.Render("..."))
				return
			}
			fmt.Fprintf(w, "  %s %s\n", style.Render(d.Path), labelStyle.Render(describe(d)))
			shown++
		}
	}

	section("Added", addedStyle, r.Added, func(d model.FileDiff) string {
		return export.FormatSize(deref(d.NewSize))
	})
	section("Deleted", deletedStyle, r.Deleted, func(d model.FileDiff) string {
		return export.FormatSize(deref(d.OldSize))
	})
	section("Modified", modifiedStyle, r.Modified, func(d model.FileDiff) string {
		return fmt.Sprintf("%s -> %s, %s -> %s",
			export.FormatSize(deref(d.OldSize)), export.FormatSize(deref(d.NewSize)),
			formatTime(deref(d.OldModified)), formatTime(deref(d.NewModified)))
	})
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
