/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a document is not found
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyExists is returned when attempting to create a document that already exists
	ErrAlreadyExists = errors.New("document already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrEncoding is returned when a payload cannot be serialized to the store's wire format
	ErrEncoding = errors.New("encoding failed")

	// ErrDecoding is returned when a stored document does not match the expected entity shape
	ErrDecoding = errors.New("decoding failed")

	// ErrStore is returned for transport or server-side failures
	ErrStore = errors.New("store failure")

	// ErrNoSchema is returned when no schema is registered for a collection
	ErrNoSchema = errors.New("no schema registered for collection")
)

// NotFoundError represents an error when a document is not found
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %q not found", e.Collection, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when a document already exists
type AlreadyExistsError struct {
	Collection string
	ID         string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with id %q already exists", e.Collection, e.ID)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// EncodingError reports a payload that could not be converted to the wire format.
// Field is the dotted path of the offending value, if known.
type EncodingError struct {
	Collection string
	ID         string
	Field      string
	Err        error
}

func (e *EncodingError) Error() string {
	msg := "encode"
	if e.Collection != "" {
		msg += " " + e.Collection
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" %q", e.ID)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// DecodingError reports a stored document that does not match the entity shape.
type DecodingError struct {
	Collection string
	ID         string
	Field      string
	Err        error
}

func (e *DecodingError) Error() string {
	msg := "decode"
	if e.Collection != "" {
		msg += " " + e.Collection
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" %q", e.ID)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// StoreError wraps a transport or server-side failure. The cause stays
// reachable through errors.As / errors.Is.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(collection, id string) error {
	return &NotFoundError{Collection: collection, ID: id}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(collection, id string) error {
	return &AlreadyExistsError{Collection: collection, ID: id}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewEncodingError creates a new EncodingError
func NewEncodingError(collection, id, field string, err error) error {
	return &EncodingError{Collection: collection, ID: id, Field: field, Err: err}
}

// NewDecodingError creates a new DecodingError
func NewDecodingError(collection, id, field string, err error) error {
	return &DecodingError{Collection: collection, ID: id, Field: field, Err: err}
}

// NewStoreError wraps err as a StoreError. Errors that already belong to the
// taxonomy are returned as they are.
func NewStoreError(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEncoding) || errors.Is(err, ErrDecoding) ||
		errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrStore) {
		return err
	}
	return &StoreError{Op: op, Collection: collection, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsEncodingError checks if an error is an encoding error
func IsEncodingError(err error) bool {
	return errors.Is(err, ErrEncoding)
}

// IsDecodingError checks if an error is a decoding error
func IsDecodingError(err error) bool {
	return errors.Is(err, ErrDecoding)
}

// IsStoreError checks if an error is a transport or server-side failure
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStore)
}
