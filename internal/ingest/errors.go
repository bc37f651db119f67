package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a required CMS field that is missing or malformed.
	ErrValidation = errors.New("ingest: validation failed")
	// ErrFormat marks embedded structured text that could not be decoded.
	ErrFormat = errors.New("ingest: invalid embedded format")
)

// ValidationError identifies the entity and field that failed ingestion.
type ValidationError struct {
	// Entity is a readable path such as "chunk 2 in page 'Intro'".
	Entity string
	// Field is the CMS field name, empty when the failure is not field specific.
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ErrValidation.Error()
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s must set %s", e.Entity, e.Field)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FormatError reports a generated quiz whose structured text is malformed.
type FormatError struct {
	Entity string
	Cause  error
}

func (e *FormatError) Error() string {
	if e == nil {
		return ErrFormat.Error()
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: quiz format is invalid", e.Entity)
	}
	return fmt.Sprintf("%s: quiz format is invalid: %v", e.Entity, e.Cause)
}

func (e *FormatError) Unwrap() []error {
	if e == nil || e.Cause == nil {
		return []error{ErrFormat}
	}
	return []error{ErrFormat, e.Cause}
}

func missing(entity, field string) error {
	return &ValidationError{Entity: entity, Field: field}
}

func invalid(entity, field, reason string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}
