// Package models provides data model definitions for the todofile backend.
package models

import (
	"strings"
	"time"
)

// Priority levels accepted for a todo. Stored lowercase.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultPriority is applied when a todo carries no priority.
const DefaultPriority = PriorityMedium

// ValidPriority reports whether p is one of the canonical priority values,
// ignoring case.
func ValidPriority(p string) bool {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo represents a single tracked task.
type Todo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Completed   bool         `json:"completed"`
	Priority    string       `json:"priority"`
	DueDate     *string      `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	ImportedAt  *time.Time   `json:"importedAt,omitempty"`
	Attachments []Attachment `json:"attachments"`
	EditHistory []EditEntry  `json:"editHistory"`
}

// Attachment describes a file attached to a todo. The raw bytes live on
// disk under the upload manager's directory; the record only carries the
// descriptor.
type Attachment struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
	URL          string    `json:"url"`
}

// EditEntry captures one prior state of a todo. Entries are append-only:
// never removed, never reordered.
type EditEntry struct {
	EditedAt time.Time      `json:"editedAt"`
	Changes  TodoChanges    `json:"changes"`
	Previous PreviousValues `json:"previousValues"`
}

// TodoChanges is the delta applied by an update. Nil fields were not part
// of the request.
type TodoChanges struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the delta carries no fields at all.
func (c TodoChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Priority == nil &&
		c.DueDate == nil && c.Completed == nil
}

// PreviousValues holds the mutable business fields as they were before an
// update was applied.
type PreviousValues struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Completed   bool    `json:"completed"`
}

// Snapshot returns the todo's mutable business fields for the edit history.
func (t *Todo) Snapshot() PreviousValues {
	return PreviousValues{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
	}
}

// Touch refreshes the UpdatedAt timestamp.
func (t *Todo) Touch(now time.Time) {
	t.UpdatedAt = now
}

// Pagination describes one page of a listed collection.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalTodos"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// Stats aggregates the collection by priority and completion status.
type Stats struct {
	Total    int           `json:"total"`
	Priority PriorityStats `json:"priority"`
	Status   StatusStats   `json:"status"`
}

// PriorityStats counts todos per priority level.
type PriorityStats struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// StatusStats counts todos by completion.
type StatusStats struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}
