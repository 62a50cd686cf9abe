package token

import (
	"fmt"

	appErrors "account-rbac-service/pkg/errors"
)

var (
	ErrTokenNotFound  = fmt.Errorf("token %w", appErrors.ErrNotFound)
	ErrDuplicateToken = fmt.Errorf("token hash %w", appErrors.ErrDuplicateKey)
	ErrTokenExpired   = fmt.Errorf("token has %w", appErrors.ErrExpired)
	ErrTokenRevoked   = fmt.Errorf("token was %w", appErrors.ErrRevoked)
	ErrInvalidToken   = fmt.Errorf("%w: invalid or malformed token", appErrors.ErrUnauthorized)

	ErrOtpNotFound         = fmt.Errorf("otp %w", appErrors.ErrNotFound)
	ErrOtpAttemptsExceeded = fmt.Errorf("otp %w", appErrors.ErrAttemptsExceeded)
	ErrOtpAlreadyUsed      = fmt.Errorf("otp %w", appErrors.ErrAlreadyUsed)
	ErrOtpExpired          = fmt.Errorf("otp has %w", appErrors.ErrExpired)
	ErrOtpRevoked          = fmt.Errorf("otp was %w", appErrors.ErrRevoked)
	ErrOtpMismatch         = fmt.Errorf("%w: otp code does not match", appErrors.ErrUnauthorized)
)
