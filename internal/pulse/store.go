package pulse

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"drivepulse/internal/model"
)

// SnapshotStore persists snapshots on a Backend. Each snapshot is stored as
// a body (current binary, optionally sealed, or a read-only legacy text
// body) plus an unencrypted summary sidecar so listings never need a
// password.
type SnapshotStore struct {
	backend Backend
	codec   Codec
	ciphers []Cipher
	logger  Logger
}

// NewSnapshotStore creates a store. The first cipher seals new snapshots;
// every cipher is available for opening.
func NewSnapshotStore(backend Backend, codec Codec, logger Logger, ciphers ...Cipher) *SnapshotStore {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &SnapshotStore{
		backend: backend,
		codec:   codec,
		ciphers: ciphers,
		logger:  logger,
	}
}

// Save writes the snapshot's body and summary sidecar. A non-empty password
// seals the body. Saving an id that only had a legacy body replaces it.
func (s *SnapshotStore) Save(snapshot *model.Snapshot, password string) error {
	if err := validateID(snapshot.ID); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	body, err := s.codec.Encode(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", snapshot.ID, err)
	}

	format := FormatBinary
	if password != "" {
		if len(s.ciphers) == 0 {
			return fmt.Errorf("sealing snapshot %s: no cipher configured", snapshot.ID)
		}
		c := s.ciphers[0]
		body, err = c.Seal(body, password)
		if err != nil {
			return fmt.Errorf("sealing snapshot %s: %w", snapshot.ID, err)
		}
		format = c.Format()
	}

	if err := s.backend.Put(KindSnapshot, snapshot.ID, body); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", snapshot.ID, err)
	}

	summary := snapshot.Summary()
	summary.Encrypted = format.Sealed()
	summary.Format = format.String()
	if err := s.putSidecar(summary); err != nil {
		// A sealed body without its sidecar would vanish from listings.
		if derr := s.backend.Delete(KindSnapshot, snapshot.ID); derr != nil && !errors.Is(derr, ErrNotFound) {
			s.logger.Warn("removing body after failed summary write", "id", snapshot.ID, "error", derr)
		}
		return err
	}

	if err := s.backend.Delete(KindLegacySnapshot, snapshot.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("removing legacy body %s: %w", snapshot.ID, err)
	}

	s.logger.Debug("snapshot saved", "id", snapshot.ID, "format", format, "files", len(snapshot.Files))
	return nil
}

// ListSummaries returns a summary of every stored snapshot, most recent
// first with ties broken by id. Bodies that cannot be summarised are
// skipped with a warning.
func (s *SnapshotStore) ListSummaries() ([]model.SnapshotSummary, error) {
	ids, err := s.bodyIDs()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.SnapshotSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := s.summarize(id)
		if err != nil {
			if errors.Is(err, ErrIO) {
				return nil, err
			}
			s.logger.Warn("skipping snapshot in listing", "id", id, "error", err)
			continue
		}
		summaries = append(summaries, *summary)
	}

	slices.SortFunc(summaries, func(a, b model.SnapshotSummary) int {
		if a.Timestamp != b.Timestamp {
			if a.Timestamp > b.Timestamp {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return summaries, nil
}

// Load reads and decodes a snapshot. The current body is preferred over a
// legacy body with the same id.
func (s *SnapshotStore) Load(id, password string) (*model.Snapshot, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	body, err := s.readBody(id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.open(id, body, password)
	if err != nil {
		return nil, err
	}
	if snapshot.ID == "" {
		snapshot.ID = id
	}
	return snapshot, nil
}

// Delete removes every body and the sidecar of a snapshot. Deleting an id
// with no body fails with ErrNotFound.
func (s *SnapshotStore) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	found := false
	for _, kind := range []ObjectKind{KindSnapshot, KindLegacySnapshot} {
		err := s.backend.Delete(kind, id)
		switch {
		case err == nil:
			found = true
		case errors.Is(err, ErrNotFound):
		default:
			return fmt.Errorf("deleting %s %s: %w", kind, id, err)
		}
	}

	if err := s.backend.Delete(KindSummary, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("deleting summary %s: %w", id, err)
	}

	if !found {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	s.logger.Debug("snapshot deleted", "id", id)
	return nil
}

func (s *SnapshotStore) putSidecar(summary model.SnapshotSummary) error {
	sidecar, err := s.codec.EncodeSidecar(summary)
	if err != nil {
		return fmt.Errorf("encoding summary %s: %w", summary.ID, err)
	}
	if err := s.backend.Put(KindSummary, summary.ID, sidecar); err != nil {
		return fmt.Errorf("writing summary %s: %w", summary.ID, err)
	}
	return nil
}

// bodyIDs returns the sorted union of current and legacy body ids.
// Sidecars without a body are orphans and are not listed.
func (s *SnapshotStore) bodyIDs() ([]string, error) {
	seen := make(map[string]struct{})
	for _, kind := range []ObjectKind{KindSnapshot, KindLegacySnapshot} {
		ids, err := s.backend.List(kind)
		if err != nil {
			return nil, fmt.Errorf("listing %s objects: %w", kind, err)
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// summarize prefers the sidecar. Sidecars written before the format field
// existed are completed from the body.
func (s *SnapshotStore) summarize(id string) (*model.SnapshotSummary, error) {
	var sidecar *model.SnapshotSummary
	data, err := s.backend.Get(KindSummary, id)
	switch {
	case err == nil:
		sidecar, err = s.codec.DecodeSidecar(data)
		if err != nil {
			s.logger.Warn("ignoring unreadable summary sidecar", "id", id, "error", err)
			sidecar = nil
		}
	case errors.Is(err, ErrNotFound):
	default:
		return nil, fmt.Errorf("reading summary %s: %w", id, err)
	}

	if sidecar != nil && sidecar.Format != "" {
		if sidecar.ID == "" {
			sidecar.ID = id
		}
		return sidecar, nil
	}

	body, err := s.readBody(id)
	if err != nil {
		return nil, err
	}

	format := s.codec.Sniff(body)
	if format.Sealed() {
		if sidecar == nil {
			return nil, fmt.Errorf("snapshot %s is encrypted and has no summary: %w", id, ErrDecryptionFailed)
		}
		sidecar.Encrypted = true
		sidecar.Format = format.String()
		return sidecar, nil
	}

	summary, err := s.codec.DecodeSummary(body)
	if err != nil {
		return nil, fmt.Errorf("summarising snapshot %s: %w", id, err)
	}
	if summary.ID == "" {
		summary.ID = id
	}
	summary.Format = format.String()
	return summary, nil
}

func (s *SnapshotStore) readBody(id string) ([]byte, error) {
	body, err := s.backend.Get(KindSnapshot, id)
	if err == nil {
		return body, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("reading snapshot %s: %w", id, err)
	}

	body, err = s.backend.Get(KindLegacySnapshot, id)
	if err == nil {
		return body, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return nil, fmt.Errorf("reading legacy snapshot %s: %w", id, err)
}

func (s *SnapshotStore) open(id string, body []byte, password string) (*model.Snapshot, error) {
	format := s.codec.Sniff(body)
	if format.Sealed() {
		if password == "" {
			return nil, fmt.Errorf("snapshot %s is encrypted and no password was given: %w", id, ErrDecryptionFailed)
		}
		c := s.cipherFor(format)
		if c == nil {
			return nil, fmt.Errorf("snapshot %s: no cipher for %s envelope: %w", id, format, ErrDecryptionFailed)
		}
		plaintext, err := c.Open(body, password)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot %s: %w", id, err)
		}
		body = plaintext
	}

	snapshot, err := s.codec.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", id, err)
	}
	return snapshot, nil
}

func (s *SnapshotStore) cipherFor(format Format) Cipher {
	for _, c := range s.ciphers {
		if c.Format() == format {
			return c
		}
	}
	return nil
}

// validateID rejects ids that could address a file outside the store.
func validateID(id string) error {
	if id == "" || id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid snapshot id %q: %w", id, ErrNotFound)
	}
	return nil
}
