package pulse

// Format identifies how a stored snapshot body is encoded. It is resolved
// from the body's leading bytes and structure, never from the file name.
type Format int

const (
	FormatUnknown Format = iota
	FormatBinary
	FormatLegacyJSON
	FormatLegacyBincode
	FormatSealedAESGCM
	FormatSealedAge
)

func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatLegacyJSON:
		return "legacy-json"
	case FormatLegacyBincode:
		return "legacy-bincode"
	case FormatSealedAESGCM:
		return "aesgcm"
	case FormatSealedAge:
		return "age"
	default:
		return "unknown"
	}
}

// Sealed reports whether the body is a cipher envelope that needs a password.
func (f Format) Sealed() bool {
	return f == FormatSealedAESGCM || f == FormatSealedAge
}
