package rbac

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/mock_rbac_repository.go -package=mocks

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, roleID uuid.UUID) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	List(ctx context.Context, includeDeleted bool) ([]*Role, error)
	Update(ctx context.Context, roleID uuid.UUID, update RoleUpdate) (*Role, error)
	SoftDelete(ctx context.Context, roleID uuid.UUID, modifierID *uuid.UUID) error
	SetGrantCache(ctx context.Context, roleID uuid.UUID, cache GrantCache) error
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, permissionID uuid.UUID) (*Permission, error)
	GetByCode(ctx context.Context, code string) (*Permission, error)
	List(ctx context.Context, filter PermissionFilter) ([]*Permission, error)
	Update(ctx context.Context, permissionID uuid.UUID, update PermissionUpdate) (*Permission, error)
	SoftDelete(ctx context.Context, permissionID uuid.UUID, modifierID *uuid.UUID) error
}

// AssignmentRepository manages the two junctions and resolves effective
// permissions across them.
type AssignmentRepository interface {
	// AssignRole links a user to a role, restoring a previously removed link.
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) (*UserRole, error)
	UnassignRole(ctx context.Context, userID, roleID uuid.UUID) error
	ListUserRoles(ctx context.Context, userID uuid.UUID) ([]*UserRole, error)

	// GrantPermission links a role to a permission, restoring a previously
	// revoked grant.
	GrantPermission(ctx context.Context, roleID, permissionID uuid.UUID) (*RolePermission, error)
	// RevokePermission issues a delete on the grant, which is recorded as a
	// soft delete.
	RevokePermission(ctx context.Context, roleID, permissionID uuid.UUID) error
	ListRolePermissions(ctx context.Context, roleID uuid.UUID, includeDeleted bool) ([]*RolePermission, error)
	// ActiveGrantCodes lists the codes of a role's active, non-deleted grants
	// to active, non-deleted permissions.
	ActiveGrantCodes(ctx context.Context, roleID uuid.UUID) ([]string, error)

	// EffectivePermissions returns the sorted, de-duplicated permission codes
	// reachable from userID through active, non-deleted rows at every hop.
	EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
}
