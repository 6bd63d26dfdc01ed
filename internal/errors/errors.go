package errors

import (
	stderrors "errors"
	"fmt"
)

// Code classifies a pipeline error.
type Code string

const (
	CodeValidation     Code = "VALIDATION"
	CodeNotFound       Code = "NOT_FOUND"
	CodeBackendFailure Code = "BACKEND_FAILURE"
	CodeRenderFailure  Code = "RENDER_FAILURE"
	CodeInternal       Code = "INTERNAL"
)

// Error is a typed pipeline error. Message is short and safe to show to users;
// Err carries the underlying cause for logs.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewValidation creates an error for bad input.
func NewValidation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewNotFound creates an error for a file that is absent at the time of use.
func NewNotFound(path string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("file not found: %s", path)}
}

// NewBackendFailure wraps a transcription or summarization backend error.
func NewBackendFailure(msg string, err error) *Error {
	return &Error{Code: CodeBackendFailure, Message: msg, Err: err}
}

// NewRenderFailure wraps a document layout error.
func NewRenderFailure(msg string, err error) *Error {
	return &Error{Code: CodeRenderFailure, Message: msg, Err: err}
}

// NewInternal wraps an unexpected error (I/O and the like).
func NewInternal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, Err: err}
}

// Is reports whether any error in err's chain is an *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// UserMessage returns the short message for err without wrapped causes.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return "unexpected error"
}
