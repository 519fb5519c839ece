package pulse_test

import (
	"testing"
	"time"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
	"drivepulse/internal/testutil"
)

func TestAssembler(t *testing.T) {
	t.Run("totals count only files", func(t *testing.T) {
		clock := testutil.NewScanClock()
		asm := pulse.NewAssembler("/mnt/usb", clock, new(testutil.SequentialIDs))

		asm.Add(model.FileEntry{Path: "/mnt/usb/docs", IsDir: true, Modified: 5})
		asm.Add(model.FileEntry{Path: "/mnt/usb/docs/a.txt", Size: 100, Modified: 6})
		asm.Add(model.FileEntry{Path: "/mnt/usb/b.bin", Size: 23, Modified: 7})
		clock.Advance(2500 * time.Millisecond)

		got := asm.Finish()

		if got.ID != "id-1" {
			t.Errorf("ID = %q, want %q", got.ID, "id-1")
		}
		if got.DrivePath != "/mnt/usb" {
			t.Errorf("DrivePath = %q, want %q", got.DrivePath, "/mnt/usb")
		}
		if got.TotalFiles != 2 {
			t.Errorf("TotalFiles = %d, want 2", got.TotalFiles)
		}
		if got.TotalSize != 123 {
			t.Errorf("TotalSize = %d, want 123", got.TotalSize)
		}
		if len(got.Files) != 3 {
			t.Errorf("len(Files) = %d, want 3", len(got.Files))
		}
		if got.ScanDuration != 2 {
			t.Errorf("ScanDuration = %d, want 2", got.ScanDuration)
		}
		if want := clock.Now().Unix(); got.Timestamp != want {
			t.Errorf("Timestamp = %d, want completion time %d", got.Timestamp, want)
		}
	})

	t.Run("empty scan", func(t *testing.T) {
		asm := pulse.NewAssembler("/empty", testutil.NewScanClock(), new(testutil.SequentialIDs))
		got := asm.Finish()

		if got.TotalFiles != 0 || got.TotalSize != 0 || len(got.Files) != 0 {
			t.Errorf("Finish() = %+v, want empty totals", got)
		}
		if got.ScanDuration != 0 {
			t.Errorf("ScanDuration = %d, want 0", got.ScanDuration)
		}
	})

	t.Run("preserves walk order", func(t *testing.T) {
		asm := pulse.NewAssembler("/r", testutil.NewScanClock(), new(testutil.SequentialIDs))
		for _, p := range []string{"/r/b", "/r/a", "/r/c"} {
			asm.Add(model.FileEntry{Path: p})
		}
		got := asm.Finish()
		for i, want := range []string{"/r/b", "/r/a", "/r/c"} {
			if got.Files[i].Path != want {
				t.Errorf("Files[%d].Path = %q, want %q", i, got.Files[i].Path, want)
			}
		}
	})
}
