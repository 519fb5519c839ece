package pulse

import (
	"context"
	"iter"

	"drivepulse/internal/model"
)

// RawEntry is a single traversal result before it is folded into a snapshot.
type RawEntry = model.FileEntry

// FilesystemManager abstracts the filesystem so scans can run against a
// mock tree in tests.
type FilesystemManager interface {
	// Resolve makes rawPath absolute, stats it and checks it is a directory.
	Resolve(rawPath string) (*Path, error)

	// Walk lazily enumerates every entry below root, excluding root itself.
	// Entries that cannot be stat'ed are skipped. A failure on root ends the
	// sequence with an error wrapping ErrIO; cancellation ends it with
	// ctx.Err(). Progress is sent without blocking; the channel may be nil
	// and is never closed by Walk.
	Walk(ctx context.Context, root *Path, progress chan<- model.Progress) iter.Seq2[RawEntry, error]
}
