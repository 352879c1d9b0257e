package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Violations maps a request field to what is wrong with it.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// ValidationError is returned when input fails field-level checks.
type ValidationError struct {
	Fields Violations
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: Violations{field: msg}}
}

// ConflictError is returned when an insert would duplicate an existing pair.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// RemoveResult reports the outcome of removing a membership row.
type RemoveResult int

const (
	Removed RemoveResult = iota
	NotPresent
)

func (r RemoveResult) String() string {
	switch r {
	case Removed:
		return "removed"
	case NotPresent:
		return "not present"
	}
	return "unknown"
}
