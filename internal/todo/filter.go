package todo

import (
	"strings"

	"github.com/tmvuong/todofile/internal/models"
)

// Status filter values. Any other value leaves the status predicate
// disabled.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Criteria holds the list filter parameters. Empty fields disable the
// corresponding predicate.
type Criteria struct {
	Search   string
	Priority string
	Status   string
}

// Filter is a single predicate over a todo record.
type Filter interface {
	// Match reports whether the record passes this filter.
	Match(t *models.Todo) bool

	// Valid checks whether the filter is active.
	Valid() bool
}

// SearchFilter matches a case-insensitive substring of title or
// description. Diacritics are not stripped here; search is case-folding
// only.
type SearchFilter struct {
	Term string
}

// Valid reports whether a search term is set.
func (f *SearchFilter) Valid() bool {
	return strings.TrimSpace(f.Term) != ""
}

// Match reports whether title or description contains the term.
func (f *SearchFilter) Match(t *models.Todo) bool {
	term := strings.ToLower(f.Term)
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

// PriorityFilter matches records whose priority equals the filter value
// after both sides are normalized, so stored mixed-case priorities still
// match a lowercase filter.
type PriorityFilter struct {
	Priority string
}

// Valid reports whether a priority value is set.
func (f *PriorityFilter) Valid() bool {
	return strings.TrimSpace(f.Priority) != ""
}

// Match compares normalized priorities.
func (f *PriorityFilter) Match(t *models.Todo) bool {
	return NormalizePriority(t.Priority) == NormalizePriority(f.Priority)
}

// StatusFilter matches by completion status.
type StatusFilter struct {
	Status string
}

// Valid reports whether the status value is one of the recognized filters.
func (f *StatusFilter) Valid() bool {
	return f.Status == StatusCompleted || f.Status == StatusPending
}

// Match compares the record's completion against the requested status.
func (f *StatusFilter) Match(t *models.Todo) bool {
	if f.Status == StatusCompleted {
		return t.Completed
	}
	return !t.Completed
}

// BuildFilters returns the active filters for the given criteria.
func BuildFilters(c Criteria) []Filter {
	candidates := []Filter{
		&SearchFilter{Term: c.Search},
		&PriorityFilter{Priority: c.Priority},
		&StatusFilter{Status: c.Status},
	}

	var active []Filter
	for _, f := range candidates {
		if f.Valid() {
			active = append(active, f)
		}
	}
	return active
}

// ApplyFilters returns the records passing every active filter, in input
// order. The input slice is never mutated; the result is a new slice.
func ApplyFilters(todos []models.Todo, c Criteria) []models.Todo {
	filters := BuildFilters(c)

	out := make([]models.Todo, 0, len(todos))
	for i := range todos {
		if matchesAll(&todos[i], filters) {
			out = append(out, todos[i])
		}
	}
	return out
}

func matchesAll(t *models.Todo, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(t) {
			return false
		}
	}
	return true
}
