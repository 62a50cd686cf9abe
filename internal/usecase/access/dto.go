package access

import (
	"time"

	"account-rbac-service/internal/domain/rbac"

	"github.com/google/uuid"
)

type CreateRoleRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=50"`
	Code        string  `json:"code" validate:"required,min=2,max=50,uppercase"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	// Markers are descriptive lower case flags kept in the role's permission
	// blob, e.g. {"view_profile": true}.
	Markers map[string]interface{} `json:"markers"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

type CreatePermissionRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Code        string  `json:"code" validate:"required,min=2,max=100,uppercase"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Module      *string `json:"module" validate:"omitempty,max=50"`
	Action      *string `json:"action" validate:"omitempty,max=50"`
	Resource    *string `json:"resource" validate:"omitempty,max=100"`
}

type UpdatePermissionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Module      *string `json:"module" validate:"omitempty,max=50"`
	Action      *string `json:"action" validate:"omitempty,max=50"`
	Resource    *string `json:"resource" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active"`
}

type AssignRoleRequest struct {
	RoleID uuid.UUID `json:"role_id" validate:"required"`
}

type GrantPermissionRequest struct {
	PermissionID uuid.UUID `json:"permission_id" validate:"required"`
}

type RoleResponse struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Code        string                 `json:"code"`
	Description *string                `json:"description"`
	Permissions map[string]interface{} `json:"permissions"`
	IsSystem    bool                   `json:"is_system"`
	IsActive    bool                   `json:"is_active"`
	IsDeleted   bool                   `json:"is_deleted"`
	DeletedAt   *time.Time             `json:"deleted_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type PermissionResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description *string    `json:"description"`
	Module      *string    `json:"module"`
	Action      *string    `json:"action"`
	Resource    *string    `json:"resource"`
	IsSystem    bool       `json:"is_system"`
	IsActive    bool       `json:"is_active"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type AssignmentResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	RoleID     uuid.UUID `json:"role_id"`
	RoleCode   string    `json:"role_code,omitempty"`
	IsActive   bool      `json:"is_active"`
	AssignedAt time.Time `json:"assigned_at"`
}

type GrantResponse struct {
	ID             uuid.UUID  `json:"id"`
	RoleID         uuid.UUID  `json:"role_id"`
	PermissionID   uuid.UUID  `json:"permission_id"`
	PermissionCode string     `json:"permission_code,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	GrantedAt      time.Time  `json:"granted_at"`
}

type EffectivePermissionsResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Permissions []string  `json:"permissions"`
}

func ToRoleResponse(r *rbac.Role) *RoleResponse {
	return &RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		Permissions: r.Permissions,
		IsSystem:    r.IsSystem,
		IsActive:    r.IsActive,
		IsDeleted:   r.IsDeleted,
		DeletedAt:   r.DeletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToPermissionResponse(p *rbac.Permission) *PermissionResponse {
	return &PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		Module:      p.Module,
		Action:      p.Action,
		Resource:    p.Resource,
		IsSystem:    p.IsSystem,
		IsActive:    p.IsActive,
		IsDeleted:   p.IsDeleted,
		DeletedAt:   p.DeletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toAssignmentResponse(link *rbac.UserRole, roleCode string) *AssignmentResponse {
	return &AssignmentResponse{
		ID:         link.ID,
		UserID:     link.UserID,
		RoleID:     link.RoleID,
		RoleCode:   roleCode,
		IsActive:   link.IsActive,
		AssignedAt: link.CreatedAt,
	}
}

func toGrantResponse(grant *rbac.RolePermission, permissionCode string) *GrantResponse {
	return &GrantResponse{
		ID:             grant.ID,
		RoleID:         grant.RoleID,
		PermissionID:   grant.PermissionID,
		PermissionCode: permissionCode,
		IsActive:       grant.IsActive,
		IsDeleted:      grant.IsDeleted,
		DeletedAt:      grant.DeletedAt,
		GrantedAt:      grant.CreatedAt,
	}
}
