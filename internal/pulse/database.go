package pulse

import "drivepulse/internal/model"

// Database records the history of operations that changed the store.
type Database interface {
	// CreateOperation records the start of an operation and returns it with
	// its assigned ID.
	CreateOperation(operation, parameters string) (*model.Operation, error)

	// FinishOperation stamps the finish time and final status. snapshotID
	// names the snapshot the operation created or removed, if any.
	FinishOperation(id int64, status, snapshotID string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	Close() error
}
