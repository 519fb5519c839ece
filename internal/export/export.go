// Package export renders comparison results for use outside pulse.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"drivepulse/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want json or csv)", s)
	}
}

var csvHeader = []string{"Path", "Status", "Old Size", "New Size", "Old Modified", "New Modified"}

// Write renders result to w.
func Write(w io.Writer, result *model.ComparisonResult, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile renders result to path, replacing any existing file only once
// the export is complete.
func WriteFile(path string, result *model.ComparisonResult, format Format) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := Write(tmp, result, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming export: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, result *model.ComparisonResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding comparison: %w", err)
	}
	return nil
}

// writeCSV writes one row per changed path: added, then deleted, then
// modified. Absent sides are left empty.
func writeCSV(w io.Writer, result *model.ComparisonResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, group := range [][]model.FileDiff{result.Added, result.Deleted, result.Modified} {
		for _, d := range group {
			record := []string{
				d.Path,
				statusLabel(d.Status),
				optional(d.OldSize),
				optional(d.NewSize),
				optional(d.OldModified),
				optional(d.NewModified),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("writing csv record: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func statusLabel(s model.DiffStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func optional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
