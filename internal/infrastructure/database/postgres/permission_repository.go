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

// PermissionRepository implements domain.RBAC.PermissionRepository interface
type PermissionRepository struct {
	db *DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *DB) rbac.PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(ctx context.Context, permission *rbac.Permission) error {
	dbModel := toPermissionModel(permission)
	if err := GetDB(ctx, r.db.DB).Create(dbModel).Error; err != nil {
		if isDuplicateKeyError(err) {
			return rbac.ErrPermissionExists
		}
		return fmt.Errorf("failed to create permission: %w", err)
	}

	permission.ID = dbModel.ID
	permission.CreatedAt = dbModel.CreatedAt
	permission.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *PermissionRepository) GetByID(ctx context.Context, permissionID uuid.UUID) (*rbac.Permission, error) {
	return r.first(ctx, "id = ?", permissionID)
}

func (r *PermissionRepository) GetByCode(ctx context.Context, code string) (*rbac.Permission, error) {
	return r.first(ctx, "permission_code = ?", code)
}

func (r *PermissionRepository) first(ctx context.Context, query string, args ...interface{}) (*rbac.Permission, error) {
	var dbModel models.PermissionModel
	err := GetDB(ctx, r.db.DB).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, rbac.ErrPermissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return toPermissionEntity(&dbModel), nil
}

func (r *PermissionRepository) List(ctx context.Context, filter rbac.PermissionFilter) ([]*rbac.Permission, error) {
	query := GetDB(ctx, r.db.DB)
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Module != "" {
		query = query.Where("module = ?", filter.Module)
	}

	var dbModels []models.PermissionModel
	if err := query.Order("permission_code").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissions := make([]*rbac.Permission, 0, len(dbModels))
	for i := range dbModels {
		permissions = append(permissions, toPermissionEntity(&dbModels[i]))
	}

	return permissions, nil
}

func (r *PermissionRepository) Update(ctx context.Context, permissionID uuid.UUID, update rbac.PermissionUpdate) (*rbac.Permission, error) {
	set := map[string]interface{}{}
	if update.Name != nil {
		set["permission_name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Module != nil {
		set["module"] = *update.Module
	}
	if update.Action != nil {
		set["action"] = *update.Action
	}
	if update.Resource != nil {
		set["resource"] = *update.Resource
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}

	if len(set) > 0 {
		withModifier(set, update.ModifierID)
		if err := r.updates(GetDB(ctx, r.db.DB).Where("id = ?", permissionID), set); err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, permissionID)
}

func (r *PermissionRepository) SoftDelete(ctx context.Context, permissionID uuid.UUID, modifierID *uuid.UUID) error {
	set := map[string]interface{}{"is_deleted": true}
	withModifier(set, modifierID)
	return r.updates(GetDB(ctx, r.db.DB).Where("id = ? AND is_deleted = ?", permissionID, false), set)
}

func (r *PermissionRepository) updates(query *gorm.DB, set map[string]interface{}) error {
	result := query.Model(&models.PermissionModel{}).Updates(set)

	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return rbac.ErrPermissionExists
		}
		return fmt.Errorf("failed to update permission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return rbac.ErrPermissionNotFound
	}

	return nil
}

func toPermissionModel(p *rbac.Permission) *models.PermissionModel {
	return &models.PermissionModel{
		ID:             p.ID,
		PermissionName: p.Name,
		PermissionCode: p.Code,
		Description:    p.Description,
		Module:         p.Module,
		Action:         p.Action,
		Resource:       p.Resource,
		IsSystem:       p.IsSystem,
		IsActive:       p.IsActive,
		IsDeleted:      p.IsDeleted,
		CreatedBy:      p.CreatorID,
		ModifiedBy:     p.ModifierID,
		DeletedAt:      p.DeletedAt,
	}
}

func toPermissionEntity(m *models.PermissionModel) *rbac.Permission {
	p := &rbac.Permission{
		ID:          m.ID,
		Name:        m.PermissionName,
		Code:        m.PermissionCode,
		Description: m.Description,
		Module:      m.Module,
		Action:      m.Action,
		Resource:    m.Resource,
		IsSystem:    m.IsSystem,
		IsActive:    m.IsActive,
		CreatorID:   m.CreatedBy,
		ModifierID:  m.ModifiedBy,
	}
	p.IsDeleted = m.IsDeleted
	p.DeletedAt = m.DeletedAt
	p.CreatedAt = m.CreatedAt
	p.UpdatedAt = m.UpdatedAt

	return p
}
