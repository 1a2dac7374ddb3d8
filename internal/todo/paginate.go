package todo

import (
	"github.com/tmvuong/todofile/internal/models"
)

// DefaultPageSize is applied when no usable limit is supplied.
const DefaultPageSize = 10

// Paginate slices one page out of todos and computes the page metadata.
// A page below 1 defaults to 1 and a limit below 1 defaults to
// DefaultPageSize. Out-of-range pages yield an empty slice, not an error.
// An empty collection reports totalPages = 0.
func Paginate(todos []models.Todo, page, limit int) ([]models.Todo, models.Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	total := len(todos)
	totalPages := 0
	if total > 0 {
		totalPages = (total-1)/limit + 1
	}

	// Compare before multiplying so a huge page cannot overflow into a
	// negative slice index.
	start := 0
	if page-1 > total/limit {
		start = total
	} else {
		start = (page - 1) * limit
		if start > total {
			start = total
		}
	}
	end := start + limit
	if end > total || end < start {
		end = total
	}

	items := make([]models.Todo, end-start)
	copy(items, todos[start:end])

	return items, models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
