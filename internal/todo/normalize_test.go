package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"trims and lowercases", "  Buy Milk  ", "buy milk"},
		{"strips diacritics", "Café", "cafe"},
		{"precomposed accent", "É", "e"},
		{"vietnamese marks", "Việt Nam", "viet nam"},
		{"mixed", "  CRÈME brûlée ", "creme brulee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeTextTrimIdempotence(t *testing.T) {
	for _, s := range []string{"hello", "Café", "", "a b c"} {
		assert.Equal(t, NormalizeText(s), NormalizeText(s+" "))
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "medium"},
		{"   ", "medium"},
		{"HIGH", "high"},
		{" Low ", "low"},
		{"medium", "medium"},
		{"urgent", "urgent"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePriority(tt.in))
	}
}

func TestNormalizeDueDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"absent", "", ""},
		{"garbage degrades to null", "not-a-date", ""},
		{"date only", "2024-03-15", "2024-03-15"},
		{"rfc3339 same day", "2024-03-15T08:30:00Z", "2024-03-15"},
		{"rfc3339 evening same day", "2024-03-15T23:59:59Z", "2024-03-15"},
		{"space separated", "2024-03-15 10:00:00", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDueDate(tt.in))
		})
	}
}

func TestNormalizeDueDateSameDayEquivalence(t *testing.T) {
	morning := NormalizeDueDate("2024-06-01T01:00:00Z")
	evening := NormalizeDueDate("2024-06-01T22:00:00Z")
	assert.Equal(t, morning, evening)
	assert.NotEmpty(t, morning)
}

func TestNormalizeFieldIdentityForUnknownFields(t *testing.T) {
	assert.Equal(t, "  RaW  ", NormalizeField("somethingElse", "  RaW  "))
}
