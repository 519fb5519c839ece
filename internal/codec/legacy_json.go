package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

// DecodeLegacyJSON reads the text format written by earlier releases.
// The format is read-only; nothing writes it any more.
func DecodeLegacyJSON(data []byte) (*model.Snapshot, error) {
	var s model.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: legacy json: %v", pulse.ErrCorruptSnapshot, err)
	}
	if len(s.Files) == 0 {
		s.Files = nil
	}
	return &s, nil
}

// DecodeLegacyJSONSummary reads the summary fields of a legacy text body.
func DecodeLegacyJSONSummary(data []byte) (*model.SnapshotSummary, error) {
	var summary model.SnapshotSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("%w: legacy json: %v", pulse.ErrCorruptSnapshot, err)
	}
	return &summary, nil
}

func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(data)
}

// EncodeSidecar writes the summary sidecar stored next to every snapshot.
func EncodeSidecar(summary model.SnapshotSummary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}
	return data, nil
}

// DecodeSidecar reads a summary sidecar. Sidecars from earlier releases lack
// the encrypted and format fields.
func DecodeSidecar(data []byte) (*model.SnapshotSummary, error) {
	var summary model.SnapshotSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("%w: summary sidecar: %v", pulse.ErrCorruptSnapshot, err)
	}
	return &summary, nil
}
