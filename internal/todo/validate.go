package todo

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/tmvuong/todofile/internal/models"
)

// Field limits for user-supplied creates and updates.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Upload limits.
const (
	MaxUploadSize = 5 << 20  // attachments
	MaxImportSize = 10 << 20 // import files
)

// allowedUploadTypes is the accepted attachment MIME set; only images are
// stored.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// CreateRequest is the payload for creating a todo.
type CreateRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Priority    string  `json:"priority" validate:"omitempty,priority"`
	DueDate     *string `json:"dueDate"`
}

// Validator checks user-supplied todo data and reports problems as a list
// of human-readable messages. Unlike normalization, which degrades bad
// values, validation rejects them: an unparseable due date on a create or
// update is an error here.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the todo-specific rules registered.
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.ValidPriority(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateCreate checks a create payload. Length limits apply to the
// trimmed values. Returns nil when the payload is valid.
func (vd *Validator) ValidateCreate(req CreateRequest) []string {
	trimmed := req
	trimmed.Title = strings.TrimSpace(req.Title)
	trimmed.Description = strings.TrimSpace(req.Description)
	trimmed.Priority = strings.TrimSpace(req.Priority)

	var msgs []string
	if err := vd.validate.Struct(trimmed); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				msgs = append(msgs, messageFor(fe))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
	}

	msgs = append(msgs, validateDueDate(req.DueDate)...)

	return msgs
}

// ValidateUpdate checks an update delta. Only fields present in the delta
// are validated, so a completed-only update skips every other rule.
func (vd *Validator) ValidateUpdate(changes models.TodoChanges) []string {
	var msgs []string

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			msgs = append(msgs, "title must not be empty")
		} else if utf8.RuneCountInString(title) > MaxTitleLength {
			msgs = append(msgs, fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
		}
	}

	if changes.Description != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*changes.Description)) > MaxDescriptionLength {
			msgs = append(msgs, fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength))
		}
	}

	if changes.Priority != nil && !models.ValidPriority(*changes.Priority) {
		msgs = append(msgs, "priority must be one of: low, medium, high")
	}

	msgs = append(msgs, validateDueDate(changes.DueDate)...)

	return msgs
}

// ValidatePagination checks list pagination parameters supplied by the
// caller. The paginator itself tolerates bad input by defaulting; this is
// the stricter path for callers that want explicit feedback.
func ValidatePagination(page, limit int) []string {
	var msgs []string
	if page < 1 {
		msgs = append(msgs, "page must be a positive integer")
	}
	if limit < 1 || limit > 100 {
		msgs = append(msgs, "limit must be between 1 and 100")
	}
	return msgs
}

// ValidateUploadFile checks an attachment's detected MIME type and size.
func ValidateUploadFile(mimeType string, size int64) []string {
	var msgs []string
	if !allowedUploadTypes[mimeType] {
		msgs = append(msgs, "only image files are accepted (JPEG, PNG, GIF, WebP)")
	}
	if size > MaxUploadSize {
		msgs = append(msgs, "file is too large, the maximum size is 5MB")
	}
	return msgs
}

// ValidateImportFile checks an import file's name and size.
func ValidateImportFile(name string, size int64) []string {
	var msgs []string
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		msgs = append(msgs, "only JSON files are accepted")
	}
	if size > MaxImportSize {
		msgs = append(msgs, "file is too large, the maximum size is 10MB")
	}
	return msgs
}

func validateDueDate(due *string) []string {
	if due == nil || strings.TrimSpace(*due) == "" {
		return nil
	}
	if _, ok := ParseDueDate(*due); !ok {
		return []string{"dueDate is not a valid date"}
	}
	return nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "priority":
		return "priority must be one of: low, medium, high"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
