package user

import (
	"fmt"

	appErrors "account-rbac-service/pkg/errors"
)

var (
	ErrUserNotFound = fmt.Errorf("user %w", appErrors.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("user email %w", appErrors.ErrDuplicateKey)
	ErrUserInactive = fmt.Errorf("%w: user account is inactive", appErrors.ErrUnauthorized)
	ErrSelfPurge    = fmt.Errorf("%w: cannot purge own account", appErrors.ErrInvalidInput)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", appErrors.ErrUnauthorized)
)
