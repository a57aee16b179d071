// Package repository holds the in-memory reservation list and the error
// values it reports. Handlers translate a *ValidationError into a 400
// response whose message is shown to the user as-is; no other failure
// leaves this package.
package repository

import "errors"

// ValidationKind classifies why an add was rejected.
type ValidationKind string

const (
	EmptyName       ValidationKind = "empty_name"
	InvalidQuantity ValidationKind = "invalid_quantity"
)

// ErrEmptyName is matched (errors.Is) by a validation error raised for a
// blank or whitespace-only client name.
var ErrEmptyName = errors.New("client name cannot be empty")

// ErrInvalidQuantity is matched by a validation error raised for a
// quantity that is blank, not an integer, or not greater than zero.
var ErrInvalidQuantity = errors.New("quantity must be a valid number greater than 0")

// ValidationError is returned by Add when a candidate reservation is
// rejected. The list is never modified when one is returned.
type ValidationError struct {
	Kind ValidationKind
	err  error
}

func (e *ValidationError) Error() string { return e.err.Error() }

func (e *ValidationError) Unwrap() error { return e.err }

func newValidationError(kind ValidationKind) *ValidationError {
	switch kind {
	case EmptyName:
		return &ValidationError{Kind: kind, err: ErrEmptyName}
	default:
		return &ValidationError{Kind: InvalidQuantity, err: ErrInvalidQuantity}
	}
}
