package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"drivepulse/internal/pulse"
)

func TestMemoryStore_PutGet(t *testing.T) {
	m := NewMemoryStore()

	data := []byte("body")
	if err := m.Put(pulse.KindSnapshot, "id", data); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	data[0] = 'X' // caller's buffer must not alias the stored copy

	got, err := m.Get(pulse.KindSnapshot, "id")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "body" {
		t.Errorf("Get() = %q, want %q", got, "body")
	}

	if _, err := m.Get(pulse.KindSummary, "id"); !errors.Is(err, pulse.ErrNotFound) {
		t.Errorf("Get(summary) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_DeleteAndList(t *testing.T) {
	m := NewMemoryStore()
	for _, id := range []string{"x", "y"} {
		if err := m.Put(pulse.KindSnapshot, id, []byte(id)); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	if err := m.Put(pulse.KindSummary, "x", []byte("{}")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if err := m.Delete(pulse.KindSnapshot, "x"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := m.Delete(pulse.KindSnapshot, "x"); !errors.Is(err, pulse.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	ids, err := m.List(pulse.KindSnapshot)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !slices.Equal(ids, []string{"y"}) {
		t.Errorf("List() = %v, want [y]", ids)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	m := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", i)
			if err := m.Put(pulse.KindSnapshot, id, []byte(id)); err != nil {
				t.Errorf("Put() error = %v", err)
			}
			if _, err := m.Get(pulse.KindSnapshot, id); err != nil {
				t.Errorf("Get() error = %v", err)
			}
			if _, err := m.List(pulse.KindSnapshot); err != nil {
				t.Errorf("List() error = %v", err)
			}
		}()
	}
	wg.Wait()

	ids, _ := m.List(pulse.KindSnapshot)
	if len(ids) != 20 {
		t.Errorf("List() returned %d ids, want 20", len(ids))
	}
}
