package match

import (
	"errors"
	"fmt"
)

// Stable error codes returned to callers. Clients branch on the code, so
// these strings are part of the contract and must not change.
const (
	CodeForeignKeyNotFound     = "ForeignKeyNotFound"
	CodeNotFound               = "NotFound"
	CodeInvalidStateTransition = "InvalidStateTransition"
	CodeConflict               = "Conflict"
	CodeSaveFailed             = "SaveFailed"
	CodeValidationError        = "ValidationError"
	CodeUnknown                = "Unknown"
)

// Error is the single tagged error type for all domain failures. Field
// names the offending input for validation and foreign key errors.
type Error struct {
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func ForeignKeyError(field string) *Error {
	return &Error{Code: CodeForeignKeyNotFound, Field: field, Message: fmt.Sprintf("%s does not reference an existing record", field)}
}

func ValidationErr(field, message string) *Error {
	return &Error{Code: CodeValidationError, Field: field, Message: message}
}

func NotFoundError(what string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", what)}
}

func InvalidTransitionError(message string) *Error {
	return &Error{Code: CodeInvalidStateTransition, Message: message}
}

func ConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// AsError extracts a *Error from an error chain, or nil.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// CodeOf returns the stable code for any error. Errors that are not
// domain errors report Unknown.
func CodeOf(err error) string {
	if e := AsError(err); e != nil {
		return e.Code
	}
	return CodeUnknown
}
