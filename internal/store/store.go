// Package store provides whole-collection persistence backends for todo
// records. Every mutation flows through a full LoadAll/SaveAll cycle; no
// backend performs partial updates.
package store

import (
	"context"

	"github.com/tmvuong/todofile/internal/models"
)

// Store persists the complete todo collection. Implementations return the
// records in stored order and must treat an absent collection as empty
// rather than an error.
type Store interface {
	// LoadAll returns the full collection.
	LoadAll(ctx context.Context) ([]models.Todo, error)

	// SaveAll replaces the full collection.
	SaveAll(ctx context.Context, todos []models.Todo) error
}
