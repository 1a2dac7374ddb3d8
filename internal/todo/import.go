package todo

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tmvuong/todofile/internal/apperr"
	"github.com/tmvuong/todofile/internal/models"
	"github.com/tmvuong/todofile/internal/uuid"
)

// IncomingTodo is one candidate record from an import payload. Completed
// is declared loosely because exported files from older versions carry it
// as a string or number; it is coerced to a boolean during
// reconciliation.
type IncomingTodo struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     *string     `json:"dueDate"`
	Completed   interface{} `json:"completed"`
}

// DuplicateSummary is the lightweight projection of a duplicate import
// record used for reporting; duplicates are never persisted.
type DuplicateSummary struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// ReconcileResult partitions an import batch.
type ReconcileResult struct {
	Accepted   []models.Todo
	Duplicates []DuplicateSummary
	Processed  int
	Rejected   int
}

// DecodeImportPayload decodes an import payload into candidate records.
// The payload is either a bare JSON array of records or an object wrapping
// the array in a "todos" field; anything else is an import format error.
func DecodeImportPayload(data []byte) ([]IncomingTodo, error) {
	var list []IncomingTodo
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapper struct {
		Todos []IncomingTodo `json:"todos"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Todos != nil {
		return wrapper.Todos, nil
	}

	return nil, apperr.New(apperr.ErrImportFormat,
		"import payload must be a todo array or an object with a todos array")
}

// Reconcile classifies every incoming record against the pre-import
// snapshot, in input order. Records with a blank title are dropped and
// counted as rejected. Remaining records are classified as duplicate or
// accepted; accepted records are stamped with identity and audit fields
// and are ready to persist. Classification runs against existing only:
// records accepted earlier in the same batch do not count as existing.
//
// A batch in which no record survives the title filter is an import
// format error. Duplicate content is a normal, reportable outcome, never
// an error.
func Reconcile(incoming []IncomingTodo, existing []models.Todo) (*ReconcileResult, error) {
	result := &ReconcileResult{
		Accepted:   []models.Todo{},
		Duplicates: []DuplicateSummary{},
		Processed:  len(incoming),
	}

	now := time.Now()
	usable := 0

	for _, in := range incoming {
		if strings.TrimSpace(in.Title) == "" {
			result.Rejected++
			continue
		}
		usable++

		candidate := models.Todo{
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
		}

		if IsDuplicate(candidate, existing) {
			result.Duplicates = append(result.Duplicates, DuplicateSummary{
				Title:       in.Title,
				Description: in.Description,
				Priority:    in.Priority,
				DueDate:     in.DueDate,
			})
			continue
		}

		importedAt := now
		result.Accepted = append(result.Accepted, models.Todo{
			ID:          uuid.New(),
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Completed:   coerceBool(in.Completed),
			Priority:    NormalizePriority(in.Priority),
			DueDate:     cleanDueDate(in.DueDate),
			CreatedAt:   now,
			UpdatedAt:   now,
			ImportedAt:  &importedAt,
			Attachments: []models.Attachment{},
			EditHistory: []models.EditEntry{},
		})
	}

	if usable == 0 {
		return nil, apperr.New(apperr.ErrImportFormat, "import payload contains no usable todos")
	}

	return result, nil
}

// coerceBool maps the loosely typed completed value to a boolean.
func coerceBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(strings.TrimSpace(val), "true")
	case float64:
		return val != 0
	}
	return false
}
