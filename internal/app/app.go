package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"drivepulse/internal/codec"
	"drivepulse/internal/config"
	"drivepulse/internal/database"
	"drivepulse/internal/encryption"
	"drivepulse/internal/fs"
	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
	"drivepulse/internal/store"
)

// PulseApp is the application layer between the CLI and pulse.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths and ids, and records store-mutating
// operations in the history database.
type PulseApp struct {
	cfg     *config.Config
	db      pulse.Database
	backend pulse.Backend
	fsmgr   pulse.FilesystemManager
	service *pulse.Service
	op      *Operation
	logFile *os.File
}

// NewPulseApp creates a fully wired PulseApp from the given config.
// operation identifies the CLI command being run (e.g. "Scan", "Delete").
// The caller must call Close when done.
func NewPulseApp(cfg *config.Config, operation string) (*PulseApp, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	a, err := newPulseApp(cfg, operation, log)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

func newPulseApp(cfg *config.Config, operation string, logger pulse.Logger) (*PulseApp, error) {
	backend, err := store.NewBackendFromConfig(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	if err := backend.ValidateSetup(); err != nil {
		return nil, fmt.Errorf("store not usable: %w", err)
	}

	ciphers, err := encryption.NewCiphersFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating ciphers: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	fsmgr := fs.NewOSFilesystemManager(cfg.Scan.Ignore,
		fs.WithFollowSymlinks(cfg.Scan.FollowSymlinks),
		fs.WithProgressInterval(cfg.Scan.ProgressInterval),
		fs.WithLogger(logger),
	)

	snapshots := pulse.NewSnapshotStore(backend, codec.New(), logger, ciphers...)
	svc := pulse.NewService(db, fsmgr, snapshots, logger, pulse.RealClock{}, pulse.UUIDGenerator{})

	return &PulseApp{
		cfg:     cfg,
		db:      db,
		backend: backend,
		fsmgr:   fsmgr,
		service: svc,
		op:      NewOperation(operation, ""),
	}, nil
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for store-mutating commands.
func (a *PulseApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.db.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// Scan resolves rawPath, walks it and saves a new snapshot. progress, if
// non-nil, receives periodic reports and is closed before Scan returns.
func (a *PulseApp) Scan(ctx context.Context, rawPath string, encrypt bool, password string, progress chan<- model.Progress) (*model.Snapshot, error) {
	if err := a.persistOperation(rawPath); err != nil {
		if progress != nil {
			close(progress)
		}
		return nil, err
	}

	root, err := a.fsmgr.Resolve(rawPath)
	if err != nil {
		if progress != nil {
			close(progress)
		}
		return nil, a.op.Fail(fmt.Errorf("resolving path: %w", err))
	}

	snap, err := a.service.Scan(ctx, pulse.ScanRequest{Root: root, Encrypt: encrypt, Password: password}, progress)
	if err != nil {
		return nil, a.op.Fail(err)
	}
	a.op.SnapshotID = snap.ID
	return snap, nil
}

// List returns every stored snapshot summary, most recent first.
func (a *PulseApp) List() ([]model.SnapshotSummary, error) {
	return a.service.List()
}

// Show loads one snapshot.
func (a *PulseApp) Show(id, password string) (*model.Snapshot, error) {
	return a.service.Load(id, password)
}

// Compare diffs two stored snapshots.
func (a *PulseApp) Compare(ctx context.Context, req pulse.CompareRequest) (*model.ComparisonResult, error) {
	return a.service.Compare(ctx, req)
}

// Delete removes a stored snapshot.
func (a *PulseApp) Delete(id string) error {
	if err := a.persistOperation(id); err != nil {
		return err
	}
	a.op.SnapshotID = id
	return a.op.Fail(a.service.Delete(id))
}

// GetHistory returns the most recent recorded operations.
func (a *PulseApp) GetHistory(limit int) ([]*model.Operation, error) {
	return a.service.GetHistory(limit)
}

// Close finalizes the operation record and closes all resources.
func (a *PulseApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status, a.op.SnapshotID); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
