package postgres

import (
	"context"
	"errors"
	"fmt"

	"account-rbac-service/internal/domain/rbac"
	"account-rbac-service/internal/infrastructure/database/postgres/models"
	appErrors "account-rbac-service/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errMissingReference = fmt.Errorf("referenced record %w", appErrors.ErrNotFound)

// AssignmentRepository implements domain.RBAC.AssignmentRepository interface
type AssignmentRepository struct {
	db *DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *DB) rbac.AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) (*rbac.UserRole, error) {
	db := GetDB(ctx, r.db.DB)

	var existing models.UserRoleModel
	err := db.Where("user_id = ? AND role_id = ?", userID, roleID).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsActive && !existing.IsDeleted {
			return nil, rbac.ErrRoleAlreadyAssigned
		}
		result := db.Model(&models.UserRoleModel{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{"is_active": true, "is_deleted": false})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to restore user role: %w", result.Error)
		}
		if err := db.Where("id = ?", existing.ID).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to reload user role: %w", err)
		}
		return toUserRoleEntity(&existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to get user role: %w", err)
	}

	dbModel := &models.UserRoleModel{UserID: userID, RoleID: roleID, IsActive: true}
	if err := db.Create(dbModel).Error; err != nil {
		switch {
		case isDuplicateKeyError(err):
			return nil, rbac.ErrRoleAlreadyAssigned
		case isForeignKeyError(err):
			return nil, errMissingReference
		}
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	return toUserRoleEntity(dbModel), nil
}

// UnassignRole soft deletes the link so a later AssignRole restores it.
func (r *AssignmentRepository) UnassignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	result := GetDB(ctx, r.db.DB).
		Model(&models.UserRoleModel{}).
		Where("user_id = ? AND role_id = ? AND is_deleted = ?", userID, roleID, false).
		Update("is_deleted", true)

	if result.Error != nil {
		return fmt.Errorf("failed to unassign role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return rbac.ErrAssignmentNotFound
	}

	return nil
}

func (r *AssignmentRepository) ListUserRoles(ctx context.Context, userID uuid.UUID) ([]*rbac.UserRole, error) {
	var dbModels []models.UserRoleModel
	err := GetDB(ctx, r.db.DB).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}

	links := make([]*rbac.UserRole, 0, len(dbModels))
	for i := range dbModels {
		links = append(links, toUserRoleEntity(&dbModels[i]))
	}

	return links, nil
}

func (r *AssignmentRepository) GrantPermission(ctx context.Context, roleID, permissionID uuid.UUID) (*rbac.RolePermission, error) {
	db := GetDB(ctx, r.db.DB)

	var existing models.RolePermissionModel
	err := db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).First(&existing).Error
	switch {
	case err == nil:
		if existing.IsActive && !existing.IsDeleted {
			return nil, rbac.ErrAlreadyGranted
		}
		result := db.Model(&models.RolePermissionModel{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{"is_active": true, "is_deleted": false})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to restore grant: %w", result.Error)
		}
		if err := db.Where("id = ?", existing.ID).First(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to reload grant: %w", err)
		}
		return toRolePermissionEntity(&existing), nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}

	dbModel := &models.RolePermissionModel{RoleID: roleID, PermissionID: permissionID, IsActive: true}
	if err := db.Create(dbModel).Error; err != nil {
		switch {
		case isDuplicateKeyError(err):
			return nil, rbac.ErrAlreadyGranted
		case isForeignKeyError(err):
			return nil, errMissingReference
		}
		return nil, fmt.Errorf("failed to grant permission: %w", err)
	}

	return toRolePermissionEntity(dbModel), nil
}

// RevokePermission issues a plain delete; the audit plugin records it as a
// soft delete of the grant.
func (r *AssignmentRepository) RevokePermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	result := GetDB(ctx, r.db.DB).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&models.RolePermissionModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to revoke permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return rbac.ErrGrantNotFound
	}

	return nil
}

func (r *AssignmentRepository) ListRolePermissions(ctx context.Context, roleID uuid.UUID, includeDeleted bool) ([]*rbac.RolePermission, error) {
	query := GetDB(ctx, r.db.DB).Where("role_id = ?", roleID)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var dbModels []models.RolePermissionModel
	if err := query.Order("created_at").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}

	grants := make([]*rbac.RolePermission, 0, len(dbModels))
	for i := range dbModels {
		grants = append(grants, toRolePermissionEntity(&dbModels[i]))
	}

	return grants, nil
}

func (r *AssignmentRepository) ActiveGrantCodes(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	var codes []string
	err := GetDB(ctx, r.db.DB).
		Table("role_permissions AS rp").
		Joins("JOIN permissions p ON p.id = rp.permission_id AND p.is_active = ? AND p.is_deleted = ?", true, false).
		Where("rp.role_id = ? AND rp.is_active = ? AND rp.is_deleted = ?", roleID, true, false).
		Order("p.permission_code").
		Pluck("p.permission_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list grant codes: %w", err)
	}

	return codes, nil
}

// EffectivePermissions resolves the user's permission set in one query.
// Every hop (user, link, role, grant, permission) must be active and not
// deleted.
func (r *AssignmentRepository) EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var codes []string
	err := GetDB(ctx, r.db.DB).
		Table("users AS u").
		Distinct("p.permission_code").
		Joins("JOIN user_roles ur ON ur.user_id = u.id AND ur.is_active = ? AND ur.is_deleted = ?", true, false).
		Joins("JOIN roles r ON r.id = ur.role_id AND r.is_active = ? AND r.is_deleted = ?", true, false).
		Joins("JOIN role_permissions rp ON rp.role_id = r.id AND rp.is_active = ? AND rp.is_deleted = ?", true, false).
		Joins("JOIN permissions p ON p.id = rp.permission_id AND p.is_active = ? AND p.is_deleted = ?", true, false).
		Where("u.id = ? AND u.is_active = ? AND u.is_deleted = ?", userID, true, false).
		Order("p.permission_code").
		Pluck("p.permission_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	return codes, nil
}

func toUserRoleEntity(m *models.UserRoleModel) *rbac.UserRole {
	link := &rbac.UserRole{
		ID:       m.ID,
		UserID:   m.UserID,
		RoleID:   m.RoleID,
		IsActive: m.IsActive,
	}
	link.IsDeleted = m.IsDeleted
	link.DeletedAt = m.DeletedAt
	link.CreatedAt = m.CreatedAt
	link.UpdatedAt = m.UpdatedAt

	return link
}

func toRolePermissionEntity(m *models.RolePermissionModel) *rbac.RolePermission {
	grant := &rbac.RolePermission{
		ID:           m.ID,
		RoleID:       m.RoleID,
		PermissionID: m.PermissionID,
		IsActive:     m.IsActive,
	}
	grant.IsDeleted = m.IsDeleted
	grant.DeletedAt = m.DeletedAt
	grant.CreatedAt = m.CreatedAt
	grant.UpdatedAt = m.UpdatedAt

	return grant
}
