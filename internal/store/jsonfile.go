package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmvuong/todofile/internal/apperr"
	"github.com/tmvuong/todofile/internal/models"
)

// JSONFileStore persists the collection as one pretty-printed JSON array on
// disk. Writes go to a temporary file in the same directory and are renamed
// into place so a crash mid-write never leaves a truncated collection.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a JSONFileStore at the given path, creating the
// parent directory and an empty collection file if they do not exist.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
	}

	return &JSONFileStore{path: path}, nil
}

// LoadAll reads the full collection from disk. A missing file yields an
// empty collection.
func (s *JSONFileStore) LoadAll(_ context.Context) ([]models.Todo, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Todo{}, nil
		}
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to read data file", err)
	}

	var todos []models.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "data file is not a valid todo collection", err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}

	return todos, nil
}

// SaveAll replaces the stored collection atomically.
func (s *JSONFileStore) SaveAll(_ context.Context, todos []models.Todo) error {
	if todos == nil {
		todos = []models.Todo{}
	}

	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to encode todo collection", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "todos-*.json")
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperr.Wrap(apperr.ErrStorage, "failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to close temp file", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to replace data file", err)
	}

	return nil
}
