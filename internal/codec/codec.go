package codec

import (
	"bytes"
	"fmt"

	"drivepulse/internal/model"
	"drivepulse/internal/pulse"
)

const ageHeader = "age-encryption.org/v1"

// nonce (12) + GCM tag (16)
const minSealedLen = 28

// Sniff classifies a stored body by its content. Checks run from most to
// least specific: binary magic, age header, JSON object, exact legacy
// fixed-width parse, and finally anything long enough to be an AES-GCM
// envelope, which carries no header of its own.
func Sniff(data []byte) pulse.Format {
	switch {
	case isBinary(data):
		return pulse.FormatBinary
	case bytes.HasPrefix(data, []byte(ageHeader)):
		return pulse.FormatSealedAge
	case isJSONObject(data):
		return pulse.FormatLegacyJSON
	case isLegacyBincode(data):
		return pulse.FormatLegacyBincode
	case len(data) >= minSealedLen:
		return pulse.FormatSealedAESGCM
	default:
		return pulse.FormatUnknown
	}
}

// Codec implements pulse.Codec.
type Codec struct{}

var _ pulse.Codec = Codec{}

func New() Codec { return Codec{} }

func (Codec) Encode(s *model.Snapshot) ([]byte, error) {
	return EncodeBinary(s), nil
}

func (Codec) Decode(data []byte) (*model.Snapshot, error) {
	switch f := Sniff(data); f {
	case pulse.FormatBinary:
		return DecodeBinary(data)
	case pulse.FormatLegacyJSON:
		return DecodeLegacyJSON(data)
	case pulse.FormatLegacyBincode:
		return DecodeLegacyBincode(data)
	case pulse.FormatSealedAESGCM, pulse.FormatSealedAge, pulse.FormatUnknown:
		return nil, fmt.Errorf("cannot decode %s body: %w", f, pulse.ErrCorruptSnapshot)
	default:
		return nil, fmt.Errorf("unhandled format %d: %w", int(f), pulse.ErrCorruptSnapshot)
	}
}

func (Codec) DecodeSummary(data []byte) (*model.SnapshotSummary, error) {
	switch f := Sniff(data); f {
	case pulse.FormatBinary:
		return DecodeBinarySummary(data)
	case pulse.FormatLegacyJSON:
		return DecodeLegacyJSONSummary(data)
	case pulse.FormatLegacyBincode:
		s, err := decodeBincode(data, false)
		if err != nil {
			return nil, fmt.Errorf("%w: legacy bincode: %v", pulse.ErrCorruptSnapshot, err)
		}
		summary := s.Summary()
		return &summary, nil
	case pulse.FormatSealedAESGCM, pulse.FormatSealedAge, pulse.FormatUnknown:
		return nil, fmt.Errorf("cannot summarise %s body: %w", f, pulse.ErrCorruptSnapshot)
	default:
		return nil, fmt.Errorf("unhandled format %d: %w", int(f), pulse.ErrCorruptSnapshot)
	}
}

func (Codec) Sniff(data []byte) pulse.Format { return Sniff(data) }

func (Codec) EncodeSidecar(summary model.SnapshotSummary) ([]byte, error) {
	return EncodeSidecar(summary)
}

func (Codec) DecodeSidecar(data []byte) (*model.SnapshotSummary, error) {
	return DecodeSidecar(data)
}
