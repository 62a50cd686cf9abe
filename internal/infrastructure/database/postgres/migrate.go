package postgres

import (
	"context"
	"fmt"

	"account-rbac-service/internal/domain/rbac"
	"account-rbac-service/internal/infrastructure/database/postgres/models"
	"account-rbac-service/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema: tables, unique indexes, check
// constraints and the foreign key cascades declared on the models.
func Migrate(ctx context.Context, db *DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Seed makes sure the system roles, permissions and grants exist. Rows are
// matched by code, so running it again changes nothing, and grants an
// administrator has since revoked stay revoked.
func Seed(ctx context.Context, db *DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleIDs := make(map[string]uuid.UUID)
		for _, role := range rbac.SeedRoles() {
			var m models.RoleModel
			if err := tx.Where(models.RoleModel{RoleCode: role.Code}).
				Attrs(*toRoleModel(&role)).
				FirstOrCreate(&m).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", role.Code, err)
			}
			roleIDs[role.Code] = m.ID
		}

		permissionIDs := make(map[string]uuid.UUID)
		for _, permission := range rbac.SeedPermissions() {
			var m models.PermissionModel
			if err := tx.Where(models.PermissionModel{PermissionCode: permission.Code}).
				Attrs(*toPermissionModel(&permission)).
				FirstOrCreate(&m).Error; err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", permission.Code, err)
			}
			permissionIDs[permission.Code] = m.ID
		}

		grants := 0
		for roleCode, codes := range rbac.SeedGrants() {
			for _, code := range codes {
				var m models.RolePermissionModel
				if err := tx.Where(models.RolePermissionModel{
					RoleID:       roleIDs[roleCode],
					PermissionID: permissionIDs[code],
				}).Attrs(models.RolePermissionModel{IsActive: true}).
					FirstOrCreate(&m).Error; err != nil {
					return fmt.Errorf("failed to seed grant %s -> %s: %w", roleCode, code, err)
				}
				grants++
			}
		}

		logger.Info("Seed data ensured",
			zap.Int("roles", len(roleIDs)),
			zap.Int("permissions", len(permissionIDs)),
			zap.Int("grants", grants),
		)
		return nil
	})
}
