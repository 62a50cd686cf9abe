package rbac

import (
	"account-rbac-service/internal/domain/audit"

	"github.com/google/uuid"
)

// Role groups permissions. Permissions is a denormalized cache of the role's
// grants; role_permissions is authoritative.
type Role struct {
	ID          uuid.UUID
	Name        string
	Code        string
	Description *string
	Permissions GrantCache
	IsSystem    bool
	IsActive    bool
	CreatorID   *uuid.UUID
	ModifierID  *uuid.UUID
	audit.SoftDelete
	audit.Timestamps
}

// Grantable reports whether the role can take part in resolution.
func (r *Role) Grantable() bool {
	return r.IsActive && !r.IsDeleted
}

// Permission is a single capability classified by module/action/resource.
type Permission struct {
	ID          uuid.UUID
	Name        string
	Code        string
	Description *string
	Module      *string
	Action      *string
	Resource    *string
	IsSystem    bool
	IsActive    bool
	CreatorID   *uuid.UUID
	ModifierID  *uuid.UUID
	audit.SoftDelete
	audit.Timestamps
}

func (p *Permission) Grantable() bool {
	return p.IsActive && !p.IsDeleted
}

// UserRole links a user to a role.
type UserRole struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	RoleID   uuid.UUID
	IsActive bool
	audit.SoftDelete
	audit.Timestamps
}

// RolePermission links a role to a permission. Rows are never physically
// removed by a delete; they are soft deleted.
type RolePermission struct {
	ID           uuid.UUID
	RoleID       uuid.UUID
	PermissionID uuid.UUID
	IsActive     bool
	audit.SoftDelete
	audit.Timestamps
}

type RoleUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
	ModifierID  *uuid.UUID
}

type PermissionUpdate struct {
	Name        *string
	Description *string
	Module      *string
	Action      *string
	Resource    *string
	IsActive    *bool
	ModifierID  *uuid.UUID
}

type PermissionFilter struct {
	Module         string
	IncludeDeleted bool
}
