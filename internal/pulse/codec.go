package pulse

import "drivepulse/internal/model"

// Codec turns snapshots into bytes and back. Encode always writes the
// current binary format; Decode accepts every plain format Sniff knows.
type Codec interface {
	Encode(s *model.Snapshot) ([]byte, error)
	Decode(data []byte) (*model.Snapshot, error)

	// DecodeSummary decodes everything except the file list.
	DecodeSummary(data []byte) (*model.SnapshotSummary, error)

	// Sniff classifies a stored body.
	Sniff(data []byte) Format

	EncodeSidecar(summary model.SnapshotSummary) ([]byte, error)
	DecodeSidecar(data []byte) (*model.SnapshotSummary, error)
}
