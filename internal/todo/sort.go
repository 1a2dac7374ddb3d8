package todo

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tmvuong/todofile/internal/models"
)

// Supported sort keys. Any other key falls back to SortByCreatedAt.
const (
	SortByTitle     = "title"
	SortByPriority  = "priority"
	SortByDueDate   = "dueDate"
	SortByCreatedAt = "createdAt"
)

// priorityRank orders priorities for sorting; unrecognized values rank
// below low.
var priorityRank = map[string]int{
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
}

// Sort returns a new slice ordered by the given key. The sort is stable:
// records the comparator does not distinguish keep their input order.
func Sort(todos []models.Todo, key string) []models.Todo {
	return sortAt(todos, key, time.Now())
}

// sortAt is Sort with an explicit "current moment" for the overdue
// partition of the due date comparator.
func sortAt(todos []models.Todo, key string, now time.Time) []models.Todo {
	out := make([]models.Todo, len(todos))
	copy(out, todos)

	var less func(a, b *models.Todo) bool
	switch key {
	case SortByTitle:
		coll := collate.New(language.Und)
		less = func(a, b *models.Todo) bool {
			return coll.CompareString(a.Title, b.Title) < 0
		}
	case SortByPriority:
		less = func(a, b *models.Todo) bool {
			return priorityRank[NormalizePriority(a.Priority)] > priorityRank[NormalizePriority(b.Priority)]
		}
	case SortByDueDate:
		less = func(a, b *models.Todo) bool {
			return compareDueDate(a, b, now) < 0
		}
	default:
		less = func(a, b *models.Todo) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

// compareDueDate orders records for the dueDate key:
//
//  1. records without a parseable due date sort last;
//  2. dated records partition into overdue (due strictly before now and
//     not completed) and non-overdue, with the whole overdue partition
//     first;
//  3. within overdue, due date descending (most recently overdue first);
//  4. within non-overdue, due date ascending (soonest upcoming first).
//
// The ordering is total and transitive; ties compare equal.
func compareDueDate(a, b *models.Todo, now time.Time) int {
	aDue, aOK := dueTime(a)
	bDue, bOK := dueTime(b)

	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return 1
	case !bOK:
		return -1
	}

	aOverdue := aDue.Before(now) && !a.Completed
	bOverdue := bDue.Before(now) && !b.Completed

	switch {
	case aOverdue && bOverdue:
		return bDue.Compare(aDue)
	case !aOverdue && !bOverdue:
		return aDue.Compare(bDue)
	case aOverdue:
		return -1
	default:
		return 1
	}
}

func dueTime(t *models.Todo) (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	return ParseDueDate(*t.DueDate)
}
