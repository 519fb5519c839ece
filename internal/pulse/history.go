package pulse

import (
	"fmt"

	"drivepulse/internal/model"
)

// GetHistory returns the most recent recorded operations, newest first.
func (s *Service) GetHistory(limit int) ([]*model.Operation, error) {
	if s.database == nil {
		return nil, fmt.Errorf("operation history is not available")
	}
	ops, err := s.database.ListOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}
