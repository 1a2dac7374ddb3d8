package store

import (
	"context"
	"sync"

	"github.com/tmvuong/todofile/internal/models"
)

// MemoryStore is an in-memory Store used in tests and as a substitute for
// the file-backed stores. It copies on both load and save so callers can
// never alias its internal slice.
type MemoryStore struct {
	mu    sync.Mutex
	todos []models.Todo

	// FailLoad and FailSave, when set, are returned verbatim so tests can
	// exercise storage-failure paths.
	FailLoad error
	FailSave error
}

// NewMemoryStore creates a MemoryStore seeded with the given records.
func NewMemoryStore(seed ...models.Todo) *MemoryStore {
	s := &MemoryStore{}
	s.todos = append(s.todos, seed...)
	return s
}

// LoadAll returns a copy of the stored collection.
func (s *MemoryStore) LoadAll(_ context.Context) ([]models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailLoad != nil {
		return nil, s.FailLoad
	}

	out := make([]models.Todo, len(s.todos))
	copy(out, s.todos)
	return out, nil
}

// SaveAll replaces the stored collection with a copy of todos.
func (s *MemoryStore) SaveAll(_ context.Context, todos []models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSave != nil {
		return s.FailSave
	}

	s.todos = make([]models.Todo, len(todos))
	copy(s.todos, todos)
	return nil
}
