package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProfileNotFound is returned when no profile matches the requested id.
var ErrProfileNotFound = errors.New("profile not found")

// FieldError describes a single rejected field of an EditRequest.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// ValidationError is returned when an EditRequest fails its field rules.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid profile data"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid profile data: " + strings.Join(parts, "; ")
}

// StorageError wraps any failure to read or write the backing profile document.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("profile storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError builds a StorageError for the given operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is, or wraps, a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
