package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrColumnNotFound  = errors.New("column not found")

	// Operator errors
	ErrUnknownOperation      = errors.New("unknown operation")
	ErrMissingParam          = errors.New("missing required parameter")
	ErrMalformedOrdinalOrder = errors.New("ordinal encoding requires a non-empty category order")
	ErrEmptyTable            = errors.New("table has no rows")

	// Import/export errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedInput    = errors.New("malformed input data")
)

// NewColumnNotFoundError builds a column error carrying the offending name.
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

// NewMissingParamError builds an error for an absent operator parameter.
func NewMissingParamError(param string) error {
	return fmt.Errorf("%w: %q", ErrMissingParam, param)
}

// NewUnknownOperationError builds an error for an unrecognized operation name.
func NewUnknownOperationError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsColumnNotFound(err error) bool {
	return errors.Is(err, ErrColumnNotFound)
}

func IsOperatorInputError(err error) bool {
	return errors.Is(err, ErrMissingParam) ||
		errors.Is(err, ErrMalformedOrdinalOrder) ||
		errors.Is(err, ErrUnknownOperation)
}
