// Package errors shapes engine and store errors for the service boundary.
// The engine itself returns plain sentinels; the HTTP layer maps them to
// coded errors here.
package errors

import (
	stderrors "errors"
	"fmt"

	"scour/domain/core"
)

// AppError is a structured boundary error with a stable code.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes surfaced by the API.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidColumn    = "INVALID_COLUMN"
	CodeUnknownOperation = "UNKNOWN_OPERATION"
	CodeBadInput         = "BAD_INPUT"
	CodeInternalError    = "INTERNAL_ERROR"
)

// New creates a coded error.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a message to an underlying error, keeping an existing code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{Code: appErr.Code, Message: message, Cause: appErr}
	}
	return &AppError{Code: CodeInternalError, Message: message, Cause: err}
}

// FromDomain classifies domain sentinels into coded boundary errors.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	switch {
	case core.IsNotFoundError(err):
		code = CodeNotFound
	case core.IsColumnNotFound(err):
		code = CodeInvalidColumn
	case stderrors.Is(err, core.ErrUnknownOperation):
		code = CodeUnknownOperation
	case stderrors.Is(err, core.ErrMissingParam),
		stderrors.Is(err, core.ErrMalformedOrdinalOrder),
		stderrors.Is(err, core.ErrUnsupportedFormat),
		stderrors.Is(err, core.ErrMalformedInput),
		stderrors.Is(err, core.ErrEmptyTable):
		code = CodeBadInput
	}
	return &AppError{Code: code, Message: err.Error(), Cause: err}
}

// GetCode returns the error's code, or INTERNAL_ERROR for plain errors.
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternalError
}
