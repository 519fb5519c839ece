package pulse

// ObjectKind selects which of a snapshot's stored objects an operation
// addresses.
type ObjectKind int

const (
	// KindSnapshot is the current body, <id>.bin.
	KindSnapshot ObjectKind = iota
	// KindLegacySnapshot is a read-only legacy text body, <id>.json.
	KindLegacySnapshot
	// KindSummary is the unencrypted summary sidecar.
	KindSummary
)

func (k ObjectKind) String() string {
	switch k {
	case KindSnapshot:
		return "snapshot"
	case KindLegacySnapshot:
		return "legacy snapshot"
	case KindSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Backend stores opaque snapshot objects keyed by kind and id.
// Missing objects are reported with an error wrapping ErrNotFound; any other
// storage failure wraps ErrIO.
type Backend interface {
	// Put stores data, replacing any previous object atomically.
	Put(kind ObjectKind, id string, data []byte) error

	// Get returns the object's bytes.
	Get(kind ObjectKind, id string) ([]byte, error)

	// Delete removes the object.
	Delete(kind ObjectKind, id string) error

	// List returns the ids of every object of the given kind, in no
	// particular order.
	List(kind ObjectKind) ([]string, error)

	// ValidateSetup verifies the backend is accessible.
	ValidateSetup() error
}
