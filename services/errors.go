package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is wrapped by every entity specific not found error
var ErrNotFound = errors.New("not found")

// Entity lookup errors
var (
	ErrPolicyNotFound    = fmt.Errorf("policy %w", ErrNotFound)
	ErrClaimNotFound     = fmt.Errorf("claim %w", ErrNotFound)
	ErrActivityNotFound  = fmt.Errorf("activity %w", ErrNotFound)
	ErrMovementNotFound  = fmt.Errorf("movement %w", ErrNotFound)
	ErrExclusionNotFound = fmt.Errorf("exclusion %w", ErrNotFound)
	ErrDocumentNotFound  = fmt.Errorf("document %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
)

// Integrity errors
var (
	ErrClaimHasDependents = errors.New("claim has activities, movements or documents")
)

// StoreError wraps a failure of the underlying store
type StoreError struct {
	Op     string // list, get, create, update, delete
	Entity string
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeError maps gorm's not-found to the entity sentinel and wraps anything else
func storeError(op, entity string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	var se *StoreError
	if errors.As(err, &se) || errors.Is(err, ErrNotFound) {
		return err
	}
	var ve *ValidationError
	if errors.As(err, &ve) || errors.Is(err, ErrClaimHasDependents) {
		return err
	}
	return &StoreError{Op: op, Entity: entity, Err: err}
}

// ValidationError lists the fields rejected by input validation
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
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field failure, keeping the first message per field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// orNil returns e only when at least one field failed
func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsNotFound reports whether err means the record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsValidationError extracts field failures from err
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
