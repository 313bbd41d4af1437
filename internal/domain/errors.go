package domain

import (
	"errors"
	"fmt"
)

// Error codes for the scoring taxonomy.
const (
	CodeInvalidParticipant = "INVALID_PARTICIPANT"
	CodeMissingParticipant = "MISSING_PARTICIPANT"
	CodeIllegalTransition  = "ILLEGAL_TRANSITION"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeDuplicateEvent     = "DUPLICATE_EVENT"
)

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Standard domain error constructors.

func ErrInvalidParticipant(format string, args ...any) *AppError {
	return &AppError{Code: CodeInvalidParticipant, Message: fmt.Sprintf(format, args...), Status: 422}
}

func ErrMissingParticipant(slot Slot) *AppError {
	return &AppError{Code: CodeMissingParticipant, Message: fmt.Sprintf("%s is not set", slot), Status: 409}
}

func ErrIllegalTransition(format string, args ...any) *AppError {
	return &AppError{Code: CodeIllegalTransition, Message: fmt.Sprintf(format, args...), Status: 409}
}

// ErrInvariantViolation marks an internal consistency failure. It is a defect, never user input.
func ErrInvariantViolation(msg string) *AppError {
	return &AppError{Code: CodeInvariantViolation, Message: msg, Status: 500}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: 400}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Status: 500, Cause: cause}
}

func ErrDuplicateEvent(key string) *AppError {
	return &AppError{Code: CodeDuplicateEvent, Message: fmt.Sprintf("event with idempotency key %q already applied", key), Status: 409}
}
