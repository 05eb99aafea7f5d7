package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents different types of application errors
type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeDuplicateField ErrorCode = "DUPLICATE_FIELD"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// Client action hints carried alongside auth and lifecycle errors. The frontend
// uses these to decide where to send the user next.
const (
	ActionLogin    = "login"
	ActionVerify   = "verify"
	ActionContact  = "contact"
	ActionRetry    = "retry"
	ActionResend   = "resend"
	ActionForgot   = "forgot"
	ActionFixInput = "fix_input"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents an application error with code, HTTP status, and the
// optional client-facing context (action hint, field errors, account email).
type AppError struct {
	Code    ErrorCode
	Message string
	Status  int
	Action  string
	Field   string
	Email   string
	Errors  []FieldError
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithAction sets the client action hint and returns the error for chaining.
func (e *AppError) WithAction(action string) *AppError {
	e.Action = action
	return e
}

// WithEmail attaches the account email (used by the verification-required
// outcome so the client can offer a resend).
func (e *AppError) WithEmail(email string) *AppError {
	e.Email = email
	return e
}

// NewNotFound creates a new "not found" error
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInvalidInput creates a new "invalid input" error
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Status:  http.StatusBadRequest,
		Action:  ActionFixInput,
	}
}

// NewValidation creates an invalid-input error carrying the full list of
// field errors, not just the first one.
func NewValidation(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: "Please fix the following validation errors:",
		Status:  http.StatusBadRequest,
		Action:  ActionFixInput,
		Errors:  fieldErrors,
	}
}

// NewConflict creates a new "conflict" error (e.g., duplicate verified account)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewDuplicateField maps a store uniqueness violation to a field-specific
// 400 so the caller can fix the offending field.
func NewDuplicateField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateField,
		Message: message,
		Status:  http.StatusBadRequest,
		Field:   field,
		Action:  ActionFixInput,
	}
}

// NewUnauthorized creates a new "unauthorized" error
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewForbidden creates a new "forbidden" error (role or ownership mismatch)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewInternal creates a new "internal server" error. Message is generic;
// internals go to the log, never to the caller.
func NewInternal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(err error, code ErrorCode, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  status,
	}
}
