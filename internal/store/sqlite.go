package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tmvuong/todofile/internal/apperr"
	"github.com/tmvuong/todofile/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS todos (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	document TEXT NOT NULL
);
`

// SQLiteStore persists the collection in a single-table SQLite database,
// one JSON document per record. It keeps the same whole-collection
// contract as the flat-file backend: SaveAll rewrites every row in one
// transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at path and
// ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", path, err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadAll returns the full collection in stored order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM todos ORDER BY position`)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to query todos", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, apperr.Wrap(apperr.ErrStorage, "failed to scan todo row", err)
		}

		var todo models.Todo
		if err := json.Unmarshal([]byte(doc), &todo); err != nil {
			return nil, apperr.Wrap(apperr.ErrStorage, "stored todo document is corrupt", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to read todo rows", err)
	}

	return todos, nil
}

// SaveAll replaces every row in a single transaction.
func (s *SQLiteStore) SaveAll(ctx context.Context, todos []models.Todo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to clear todos", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO todos (id, position, document) VALUES (?, ?, ?)`)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for i, todo := range todos {
		doc, err := json.Marshal(todo)
		if err != nil {
			return apperr.Wrap(apperr.ErrStorage, "failed to encode todo document", err)
		}
		if _, err := stmt.ExecContext(ctx, todo.ID, i, string(doc)); err != nil {
			return apperr.Wrap(apperr.ErrStorage, "failed to insert todo row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStorage, "failed to commit todos", err)
	}

	return nil
}
