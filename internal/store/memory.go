package store

import (
	"fmt"
	"sync"

	"drivepulse/internal/pulse"
)

type objectKey struct {
	kind pulse.ObjectKind
	id   string
}

// MemoryStore keeps snapshot objects in memory. Useful for tests.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	objects map[objectKey][]byte
	mu      sync.RWMutex
}

var _ pulse.Backend = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[objectKey][]byte)}
}

func (m *MemoryStore) Put(kind pulse.ObjectKind, id string, data []byte) error {
	stored := append([]byte(nil), data...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey{kind, id}] = stored
	return nil
}

func (m *MemoryStore) Get(kind pulse.ObjectKind, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[objectKey{kind, id}]
	if !ok {
		return nil, fmt.Errorf("%s not found: %s: %w", kind, id, pulse.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStore) Delete(kind pulse.ObjectKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := objectKey{kind, id}
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("%s not found: %s: %w", kind, id, pulse.ErrNotFound)
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) List(kind pulse.ObjectKind) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for key := range m.objects {
		if key.kind == kind {
			ids = append(ids, key.id)
		}
	}
	return ids, nil
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup() error {
	return nil
}
