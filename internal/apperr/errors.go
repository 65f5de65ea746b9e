package apperr

import (
	"fmt"
	"runtime/debug"
)

// Error codes for dispatcher operations
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeToolExecution  = "TOOL_EXECUTION_ERROR"
	CodeResourceAccess = "RESOURCE_ACCESS_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
	CodeUnknown        = "UNKNOWN_ERROR"
)

// Error is the base failure kind for all dispatcher operations.
// Specialized constructors fix the code/status and merge a contextual
// key into Details.
type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a generic error with the default internal code and status.
func New(message string, details map[string]any) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: message,
		Status:  500,
		Details: details,
	}
}

// NewValidationError creates an error for bad input shape or content.
// The caller can recover by retrying with corrected input.
func NewValidationError(message string, details map[string]any) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Status:  400,
		Details: details,
	}
}

// NewToolExecutionError creates an error for a named tool whose internal
// logic failed.
func NewToolExecutionError(message, toolName string) *Error {
	return &Error{
		Code:    CodeToolExecution,
		Message: message,
		Status:  500,
		Details: map[string]any{"tool_name": toolName},
	}
}

// NewResourceAccessError creates an error for a resource that could not
// be produced.
func NewResourceAccessError(message, resourceURI string) *Error {
	return &Error{
		Code:    CodeResourceAccess,
		Message: message,
		Status:  403,
		Details: map[string]any{"resource_uri": resourceURI},
	}
}

// Wrap passes already-typed errors through unchanged and boxes anything
// else as UNKNOWN_ERROR, preserving a diagnostic stack in the details.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	if typed, ok := err.(*Error); ok {
		return typed
	}
	return &Error{
		Code:    CodeUnknown,
		Message: err.Error(),
		Status:  500,
		Details: map[string]any{"stack": string(debug.Stack())},
		Cause:   err,
	}
}

// FromPanic converts a recovered panic value into an UNKNOWN_ERROR.
// Non-error panic values are carried verbatim in the details.
func FromPanic(recovered any) *Error {
	if err, ok := recovered.(error); ok {
		wrapped := Wrap(err)
		if wrapped.Details == nil {
			wrapped.Details = make(map[string]any)
		}
		wrapped.Details["panic"] = true
		return wrapped
	}
	return &Error{
		Code:    CodeUnknown,
		Message: fmt.Sprintf("%v", recovered),
		Status:  500,
		Details: map[string]any{
			"panic": true,
			"value": fmt.Sprintf("%v", recovered),
			"stack": string(debug.Stack()),
		},
	}
}
