package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Domain packages wrap these with %w so callers can match either
// the specific error or its kind.
var (
	ErrDuplicateKey     = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrAttemptsExceeded = errors.New("attempts exceeded")
	ErrAlreadyUsed      = errors.New("already used")
	ErrExpired          = errors.New("expired")
	ErrRevoked          = errors.New("revoked")
	ErrSystemProtected  = errors.New("is a protected system record")

	ErrInvalidInput            = errors.New("invalid input data")
	ErrUnauthorized            = errors.New("unauthorized access")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError wraps a validator error as an ErrInvalidInput AppError.
func NewValidationError(err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: "Invalid input",
		Err:     fmt.Errorf("%w: %v", ErrInvalidInput, err),
	}
}

// IsKind reports whether err belongs to any of the given kinds.
func IsKind(err error, kinds ...error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
