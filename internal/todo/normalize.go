// Package todo implements the business logic for todo records: field
// normalization, duplicate classification, filtering, sorting, pagination
// and batch import reconciliation, plus the service orchestrating them
// over a persistence store.
package todo

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field names with dedicated normalization rules.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldDueDate     = "dueDate"
)

// dateLayouts are the accepted due date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// stripMarks decomposes text and discards combining marks, so accented and
// unaccented variants of the same word compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeField canonicalizes a raw field value for equality comparison.
// An absent value is passed as the empty string. The function is total:
// invalid input degrades to the field's empty canonical form, never an
// error. Fields without a dedicated rule are returned unchanged.
func NormalizeField(field, raw string) string {
	switch field {
	case FieldTitle, FieldDescription:
		return NormalizeText(raw)
	case FieldPriority:
		return NormalizePriority(raw)
	case FieldDueDate:
		return NormalizeDueDate(raw)
	}
	return raw
}

// NormalizeText trims, lowercases and strips combining diacritical marks.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return stripped
}

// NormalizePriority trims and lowercases; an empty value canonicalizes to
// the default priority.
func NormalizePriority(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "medium"
	}
	return s
}

// NormalizeDueDate canonicalizes a due date to a UTC date-only string
// ("2006-01-02"). Unparseable or absent input canonicalizes to the empty
// string, the null due date. Two timestamps on the same calendar day
// normalize identically.
func NormalizeDueDate(s string) string {
	t, ok := ParseDueDate(s)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// ParseDueDate parses a raw due date value against the accepted layouts.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
