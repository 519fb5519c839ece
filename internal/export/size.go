package export

import "fmt"

const (
	kb = 1024
	mb = kb * 1024
	gb = mb * 1024
	tb = gb * 1024
)

// FormatSize renders a byte count with binary units, e.g. "1.50 MB".
// Counts under a kilobyte are shown exactly.
func FormatSize(n int64) string {
	f := float64(n)
	switch {
	case n >= tb:
		return fmt.Sprintf("%.2f TB", f/tb)
	case n >= gb:
		return fmt.Sprintf("%.2f GB", f/gb)
	case n >= mb:
		return fmt.Sprintf("%.2f MB", f/mb)
	case n >= kb:
		return fmt.Sprintf("%.2f KB", f/kb)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
