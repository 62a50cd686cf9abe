package postgres

import (
	"context"
	"errors"
	"fmt"

	"account-rbac-service/internal/domain/rbac"
	"account-rbac-service/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleRepository implements domain.RBAC.RoleRepository interface
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *DB) rbac.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *rbac.Role) error {
	if role.Permissions == nil {
		role.Permissions = rbac.GrantCache{}
	}

	dbModel := toRoleModel(role)
	if err := GetDB(ctx, r.db.DB).Create(dbModel).Error; err != nil {
		if isDuplicateKeyError(err) {
			return rbac.ErrRoleExists
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	role.ID = dbModel.ID
	role.CreatedAt = dbModel.CreatedAt
	role.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, roleID uuid.UUID) (*rbac.Role, error) {
	return r.first(ctx, "id = ?", roleID)
}

func (r *RoleRepository) GetByCode(ctx context.Context, code string) (*rbac.Role, error) {
	return r.first(ctx, "role_code = ?", code)
}

func (r *RoleRepository) first(ctx context.Context, query string, args ...interface{}) (*rbac.Role, error) {
	var dbModel models.RoleModel
	err := GetDB(ctx, r.db.DB).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rbac.ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return toRoleEntity(&dbModel), nil
}

func (r *RoleRepository) List(ctx context.Context, includeDeleted bool) ([]*rbac.Role, error) {
	query := GetDB(ctx, r.db.DB)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var dbModels []models.RoleModel
	if err := query.Order("role_code").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]*rbac.Role, 0, len(dbModels))
	for i := range dbModels {
		roles = append(roles, toRoleEntity(&dbModels[i]))
	}

	return roles, nil
}

func (r *RoleRepository) Update(ctx context.Context, roleID uuid.UUID, update rbac.RoleUpdate) (*rbac.Role, error) {
	set := map[string]interface{}{}
	if update.Name != nil {
		set["role_name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}

	if len(set) > 0 {
		withModifier(set, update.ModifierID)
		if err := r.updates(GetDB(ctx, r.db.DB).Where("id = ?", roleID), set); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, roleID)
}

func (r *RoleRepository) SoftDelete(ctx context.Context, roleID uuid.UUID, modifierID *uuid.UUID) error {
	set := map[string]interface{}{"is_deleted": true}
	withModifier(set, modifierID)
	return r.updates(GetDB(ctx, r.db.DB).Where("id = ? AND is_deleted = ?", roleID, false), set)
}

func (r *RoleRepository) SetGrantCache(ctx context.Context, roleID uuid.UUID, cache rbac.GrantCache) error {
	return r.updates(GetDB(ctx, r.db.DB).Where("id = ?", roleID), map[string]interface{}{
		"permissions": models.JSONMap(cache),
	})
}

func (r *RoleRepository) updates(query *gorm.DB, set map[string]interface{}) error {
	result := query.Model(&models.RoleModel{}).Updates(set)

	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return rbac.ErrRoleExists
		}
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return rbac.ErrRoleNotFound
	}

	return nil
}

func toRoleModel(role *rbac.Role) *models.RoleModel {
	return &models.RoleModel{
		ID:          role.ID,
		RoleName:    role.Name,
		RoleCode:    role.Code,
		Description: role.Description,
		Permissions: models.JSONMap(role.Permissions),
		IsSystem:    role.IsSystem,
		IsActive:    role.IsActive,
		IsDeleted:   role.IsDeleted,
		CreatedBy:   role.CreatorID,
		ModifiedBy:  role.ModifierID,
		DeletedAt:   role.DeletedAt,
	}
}

func toRoleEntity(m *models.RoleModel) *rbac.Role {
	role := &rbac.Role{
		ID:          m.ID,
		Name:        m.RoleName,
		Code:        m.RoleCode,
		Description: m.Description,
		Permissions: rbac.GrantCache(m.Permissions),
		IsSystem:    m.IsSystem,
		IsActive:    m.IsActive,
		CreatorID:   m.CreatedBy,
		ModifierID:  m.ModifiedBy,
	}
	role.IsDeleted = m.IsDeleted
	role.DeletedAt = m.DeletedAt
	role.CreatedAt = m.CreatedAt
	role.UpdatedAt = m.UpdatedAt

	return role
}
