package pulse

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"drivepulse/internal/model"
)

// ErrPasswordRequired is returned when encryption is requested without a
// password.
var ErrPasswordRequired = errors.New("password required for encryption")

// Service ties the walker, the store and the diff engine together.
type Service struct {
	database Database
	fsmgr    FilesystemManager
	store    *SnapshotStore
	logger   Logger
	clock    Clock
	ids      IDGenerator
}

// NewService creates a Service. database may be nil, in which case history
// is unavailable. Pass nil for logger, clock or ids to use the defaults.
func NewService(database Database, fsmgr FilesystemManager, store *SnapshotStore, logger Logger, clock Clock, ids IDGenerator) *Service {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Service{
		database: database,
		fsmgr:    fsmgr,
		store:    store,
		logger:   logger,
		clock:    clock,
		ids:      ids,
	}
}

// ScanRequest describes one scan.
type ScanRequest struct {
	Root     *Path
	Encrypt  bool
	Password string
}

// Scan walks req.Root, assembles a snapshot and saves it. Progress reports
// go to progress, which Scan closes before returning. If the walk fails or
// ctx is cancelled nothing is persisted.
func (s *Service) Scan(ctx context.Context, req ScanRequest, progress chan<- model.Progress) (*model.Snapshot, error) {
	if progress != nil {
		defer close(progress)
	}

	if req.Encrypt && req.Password == "" {
		return nil, ErrPasswordRequired
	}

	s.logger.Info("scan started", "root", req.Root.String(), "encrypted", req.Encrypt)

	asm := NewAssembler(req.Root.String(), s.clock, s.ids)
	for entry, err := range s.fsmgr.Walk(ctx, req.Root, progress) {
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", req.Root, err)
		}
		asm.Add(entry)
	}

	snapshot := asm.Finish()

	password := ""
	if req.Encrypt {
		password = req.Password
	}
	if err := s.store.Save(snapshot, password); err != nil {
		return nil, err
	}

	s.logger.Info("scan finished",
		"id", snapshot.ID,
		"files", snapshot.TotalFiles,
		"bytes", snapshot.TotalSize,
		"seconds", snapshot.ScanDuration,
	)
	return snapshot, nil
}

// List returns every stored snapshot summary, most recent first.
func (s *Service) List() ([]model.SnapshotSummary, error) {
	return s.store.ListSummaries()
}

// Load returns a stored snapshot.
func (s *Service) Load(id, password string) (*model.Snapshot, error) {
	return s.store.Load(id, password)
}

// Delete removes a stored snapshot.
func (s *Service) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("snapshot deleted", "id", id)
	return nil
}

// CompareRequest names the two snapshots to compare. Old is treated as the
// earlier state.
type CompareRequest struct {
	OldID       string
	NewID       string
	OldPassword string
	NewPassword string
	Options     CompareOptions
}

// Compare loads both snapshots concurrently and diffs them. Loads are not
// interruptible, so ctx is only checked before they start.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (*model.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var before, after *model.Snapshot
	var g errgroup.Group
	g.Go(func() error {
		var err error
		before, err = s.store.Load(req.OldID, req.OldPassword)
		return err
	})
	g.Go(func() error {
		var err error
		after, err = s.store.Load(req.NewID, req.NewPassword)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := Compare(before, after, req.Options)
	s.logger.Debug("comparison finished",
		"old", req.OldID,
		"new", req.NewID,
		"added", len(result.Added),
		"deleted", len(result.Deleted),
		"modified", len(result.Modified),
		"unchanged", result.UnchangedCount,
	)
	return result, nil
}
