package user

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrLoginTaken    = errors.New("login is already taken")
	ErrAlreadyActive = errors.New("user is already active")
)

// ValidationError lists every rejected field with a human readable reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
