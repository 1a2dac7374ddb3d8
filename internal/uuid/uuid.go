// Package uuid provides record identifier generation.
package uuid

import (
	"github.com/google/uuid"
)

// New generates a new UUID v4 string for use as a record or attachment id.
func New() string {
	return uuid.New().String()
}
