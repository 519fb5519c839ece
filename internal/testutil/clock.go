package testutil

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"drivepulse/internal/pulse"
)

// ScanStart is where every ScanClock begins.
var ScanStart = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// ScanClock is a pulse.Clock that only moves when a test moves it, so scan
// durations and completion timestamps are exact.
type ScanClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ pulse.Clock = (*ScanClock)(nil)

// NewScanClock returns a clock reading ScanStart.
func NewScanClock() *ScanClock {
	return &ScanClock{now: ScanStart}
}

func (c *ScanClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance simulates d of scan time passing.
func (c *ScanClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SequentialIDs is a pulse.IDGenerator yielding "id-1", "id-2", ... so
// snapshot ids sort in creation order.
type SequentialIDs struct {
	n atomic.Int64
}

var _ pulse.IDGenerator = (*SequentialIDs)(nil)

func (g *SequentialIDs) New() string {
	return "id-" + strconv.FormatInt(g.n.Add(1), 10)
}
