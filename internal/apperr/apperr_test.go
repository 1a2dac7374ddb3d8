package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(New(ErrNotFound, "gone")))
	assert.Equal(t, ErrStorage, CodeOf(Wrap(ErrStorage, "write failed", errors.New("disk"))))
	assert.Equal(t, ErrInternal, CodeOf(errors.New("plain")))
}

func TestCodeOfWrappedChain(t *testing.T) {
	inner := New(ErrImportFormat, "bad payload")
	outer := fmt.Errorf("import: %w", inner)
	assert.Equal(t, ErrImportFormat, CodeOf(outer))
	assert.True(t, Is(outer, ErrImportFormat))
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation([]string{"title is required", "priority must be one of: low, medium, high"})

	assert.Equal(t, ErrValidation, CodeOf(err))
	assert.Len(t, FieldsOf(err), 2)
	assert.Contains(t, err.Error(), "title is required")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrStorage, "failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "gone", MessageOf(New(ErrNotFound, "gone")))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
	assert.Equal(t, "", MessageOf(nil))
}
