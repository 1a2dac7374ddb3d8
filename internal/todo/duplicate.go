package todo

import (
	"github.com/tmvuong/todofile/internal/models"
)

// duplicateFields are the fields compared when classifying a candidate as
// a duplicate. A match requires every one of them to be equal after
// normalization; partial matches never count.
var duplicateFields = []string{FieldTitle, FieldDescription, FieldPriority, FieldDueDate}

// IsDuplicate reports whether candidate matches any single record in
// existing on all compared fields after normalization. It short-circuits
// on the first fully matching record and never mutates its inputs.
func IsDuplicate(candidate models.Todo, existing []models.Todo) bool {
	for i := range existing {
		if sameRecord(candidate, existing[i]) {
			return true
		}
	}
	return false
}

func sameRecord(a, b models.Todo) bool {
	for _, field := range duplicateFields {
		if NormalizeField(field, rawField(a, field)) != NormalizeField(field, rawField(b, field)) {
			return false
		}
	}
	return true
}

// rawField returns the raw value of a compared field; a nil due date is
// the empty string.
func rawField(t models.Todo, field string) string {
	switch field {
	case FieldTitle:
		return t.Title
	case FieldDescription:
		return t.Description
	case FieldPriority:
		return t.Priority
	case FieldDueDate:
		if t.DueDate == nil {
			return ""
		}
		return *t.DueDate
	}
	return ""
}
