package rbac

import (
	"fmt"

	appErrors "account-rbac-service/pkg/errors"
)

var (
	ErrRoleNotFound       = fmt.Errorf("role %w", appErrors.ErrNotFound)
	ErrPermissionNotFound = fmt.Errorf("permission %w", appErrors.ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("user role assignment %w", appErrors.ErrNotFound)
	ErrGrantNotFound      = fmt.Errorf("role permission grant %w", appErrors.ErrNotFound)

	ErrRoleExists          = fmt.Errorf("role name or code %w", appErrors.ErrDuplicateKey)
	ErrPermissionExists    = fmt.Errorf("permission name or code %w", appErrors.ErrDuplicateKey)
	ErrRoleAlreadyAssigned = fmt.Errorf("user role assignment %w", appErrors.ErrDuplicateKey)
	ErrAlreadyGranted      = fmt.Errorf("role permission grant %w", appErrors.ErrDuplicateKey)

	ErrSystemRole       = fmt.Errorf("role %w", appErrors.ErrSystemProtected)
	ErrSystemPermission = fmt.Errorf("permission %w", appErrors.ErrSystemProtected)

	ErrRoleUnavailable       = fmt.Errorf("%w: role is inactive or deleted", appErrors.ErrInvalidInput)
	ErrPermissionUnavailable = fmt.Errorf("%w: permission is inactive or deleted", appErrors.ErrInvalidInput)
)
