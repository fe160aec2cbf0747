package analysis

import (
	"errors"
	"fmt"
)

// Common errors surfaced by stores and the pipeline
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateRecord means a record for the same (keyword, date)
	// already exists. The loser of a concurrent write race gets this
	// instead of silently overwriting.
	ErrDuplicateRecord = errors.New("analysis record already exists for keyword and date")
)

// ValidationError describes a malformed request. It is surfaced to the
// caller before any side effects happen.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
