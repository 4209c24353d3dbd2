package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a search or lookup yielded no result.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousResult indicates a search yielded more than one row
	// when exactly one was required.
	ErrAmbiguousResult = errors.New("ambiguous result")

	// ErrFieldNotFound indicates a field name is not declared for the document class.
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Authentication Errors.

	// ErrAuthenticationFailed indicates the credential exchange was rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrUnauthorized indicates a bearer token was rejected by the remote service.
	// Tokens are never refreshed, so an expired token surfaces as this error.
	ErrUnauthorized = errors.New("unauthorized")

	// Remote Errors.

	// ErrTransport indicates a remote call failed for a reason not otherwise classified.
	ErrTransport = errors.New("transport failure")
)

// AmbiguousError reports how many rows matched a search that required one.
type AmbiguousError struct {
	Count int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("search returned %d results", e.Count)
}

// Unwrap lets errors.Is match ErrAmbiguousResult.
func (e *AmbiguousError) Unwrap() error {
	return ErrAmbiguousResult
}

// FieldError reports the undeclared field name.
type FieldError struct {
	Name string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q not found", e.Name)
}

// Unwrap lets errors.Is match ErrFieldNotFound.
func (e *FieldError) Unwrap() error {
	return ErrFieldNotFound
}
