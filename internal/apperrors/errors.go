package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a concurrent modification was detected (stale version).
var ErrConflict = errors.New("resource was modified concurrently")

// ErrInvalidArgument indicates a required field was missing or malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrPreconditionFailed indicates the resource is not in the state the operation requires.
var ErrPreconditionFailed = errors.New("precondition failed")

// ErrRemoteService indicates the persistence collaborator failed.
var ErrRemoteService = errors.New("remote service error")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets 5xx AppErrors match ErrRemoteService so callers can treat storage
// failures uniformly.
func (e *AppError) Is(target error) bool {
	return target == ErrRemoteService && e.Code >= 500
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// ValidationFailedError aggregates every business-rule violation found while
// validating an entity. It matches ErrValidation with errors.Is.
type ValidationFailedError struct {
	Reasons []string
}

func (e *ValidationFailedError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationFailed returns a ValidationFailedError holding a copy of reasons.
func NewValidationFailed(reasons []string) error {
	cp := make([]string, len(reasons))
	copy(cp, reasons)
	return &ValidationFailedError{Reasons: cp}
}

// InvalidArgument wraps ErrInvalidArgument with a message.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// PreconditionFailed wraps ErrPreconditionFailed with a message.
func PreconditionFailed(msg string) error {
	return fmt.Errorf("%w: %s", ErrPreconditionFailed, msg)
}

// RemoteService wraps a persistence failure.
func RemoteService(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteService, op, err)
}
