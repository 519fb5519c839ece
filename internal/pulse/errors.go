package pulse

import "errors"

// Errors returned by the engine. Callers test with errors.Is; the wrapping
// message carries the offending snapshot id or path.
var (
	// ErrIO reports an unreadable root, an unwritable store or any other
	// filesystem failure that is not a per-entry walk failure.
	ErrIO = errors.New("i/o failure")

	// ErrCorruptSnapshot reports a payload that is malformed, truncated,
	// fails its checksum or has an unsupported version.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrDecryptionFailed reports a sealed payload opened with a wrong or
	// missing password, or one whose authentication tag does not verify.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrNotFound reports an unknown snapshot id.
	ErrNotFound = errors.New("snapshot not found")
)
