// Package access manages roles, permissions and their assignments, and
// answers permission checks.
package access

import (
	"context"
	"fmt"
	"sort"

	"account-rbac-service/internal/domain/audit"
	"account-rbac-service/internal/domain/event"
	"account-rbac-service/internal/domain/rbac"
	"account-rbac-service/internal/domain/tx"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/logger"
	appErrors "account-rbac-service/pkg/errors"
	"account-rbac-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	roleRepo       rbac.RoleRepository
	permissionRepo rbac.PermissionRepository
	assignmentRepo rbac.AssignmentRepository
	userRepo       domainUser.Repository
	txManager      tx.Manager
	publisher      event.Publisher
	clock          audit.Clock
}

func NewService(
	roleRepo rbac.RoleRepository,
	permissionRepo rbac.PermissionRepository,
	assignmentRepo rbac.AssignmentRepository,
	userRepo domainUser.Repository,
	txManager tx.Manager,
	publisher event.Publisher,
	clock audit.Clock,
) *Service {
	if clock == nil {
		clock = audit.SystemClock
	}
	return &Service{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		publisher:      publisher,
		clock:          clock,
	}
}

func (s *Service) CreateRole(ctx context.Context, actorID *uuid.UUID, req *CreateRoleRequest) (*RoleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	// Only descriptive markers are accepted; codes are mirrored from grants.
	cache := rbac.GrantCache(req.Markers).Rebuild(nil)

	role := &rbac.Role{
		Name:        utils.SanitizeString(req.Name),
		Code:        req.Code,
		Description: utils.SanitizeOptional(req.Description, utils.SanitizeString),
		Permissions: cache,
		IsActive:    true,
		CreatorID:   actorID,
		ModifierID:  actorID,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code),
	)

	return ToRoleResponse(role), nil
}

func (s *Service) ListRoles(ctx context.Context, includeDeleted bool) ([]*RoleResponse, error) {
	roles, err := s.roleRepo.List(ctx, includeDeleted)
	if err != nil {
		return nil, err
	}

	responses := make([]*RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, ToRoleResponse(r))
	}
	return responses, nil
}

func (s *Service) GetRole(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return ToRoleResponse(role), nil
}

// UpdateRole changes a role. System roles cannot be renamed or deactivated.
func (s *Service) UpdateRole(ctx context.Context, actorID *uuid.UUID, roleID uuid.UUID, req *UpdateRoleRequest) (*RoleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.IsSystem && (req.Name != nil || (req.IsActive != nil && !*req.IsActive)) {
		return nil, rbac.ErrSystemRole
	}

	updated, err := s.roleRepo.Update(ctx, roleID, rbac.RoleUpdate{
		Name:        utils.SanitizeOptional(req.Name, utils.SanitizeString),
		Description: utils.SanitizeOptional(req.Description, utils.SanitizeString),
		IsActive:    req.IsActive,
		ModifierID:  actorID,
	})
	if err != nil {
		return nil, err
	}

	return ToRoleResponse(updated), nil
}

// DeleteRole soft deletes a role. Its assignments and grants stay in place
// but no longer resolve.
func (s *Service) DeleteRole(ctx context.Context, actorID *uuid.UUID, roleID uuid.UUID) error {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return rbac.ErrSystemRole
	}

	if err := s.roleRepo.SoftDelete(ctx, roleID, actorID); err != nil {
		return err
	}

	logger.Info("Role deleted",
		zap.String("role_id", roleID.String()),
		zap.String("code", role.Code),
	)
	return nil
}

func (s *Service) CreatePermission(ctx context.Context, actorID *uuid.UUID, req *CreatePermissionRequest) (*PermissionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	permission := &rbac.Permission{
		Name:        utils.SanitizeString(req.Name),
		Code:        req.Code,
		Description: utils.SanitizeOptional(req.Description, utils.SanitizeString),
		Module:      utils.SanitizeOptional(req.Module, utils.SanitizeString),
		Action:      utils.SanitizeOptional(req.Action, utils.SanitizeString),
		Resource:    utils.SanitizeOptional(req.Resource, utils.SanitizeString),
		IsActive:    true,
		CreatorID:   actorID,
		ModifierID:  actorID,
	}
	if err := s.permissionRepo.Create(ctx, permission); err != nil {
		return nil, err
	}

	logger.Info("Permission created",
		zap.String("permission_id", permission.ID.String()),
		zap.String("code", permission.Code),
	)

	return ToPermissionResponse(permission), nil
}

func (s *Service) ListPermissions(ctx context.Context, module string, includeDeleted bool) ([]*PermissionResponse, error) {
	permissions, err := s.permissionRepo.List(ctx, rbac.PermissionFilter{
		Module:         module,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		responses = append(responses, ToPermissionResponse(p))
	}
	return responses, nil
}

func (s *Service) GetPermission(ctx context.Context, permissionID uuid.UUID) (*PermissionResponse, error) {
	permission, err := s.permissionRepo.GetByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	return ToPermissionResponse(permission), nil
}

// UpdatePermission changes a permission. System permissions cannot be
// renamed, reclassified or deactivated. Deactivation is reflected in the
// caches of every role holding the permission.
func (s *Service) UpdatePermission(ctx context.Context, actorID *uuid.UUID, permissionID uuid.UUID, req *UpdatePermissionRequest) (*PermissionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	permission, err := s.permissionRepo.GetByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}
	if permission.IsSystem && (req.Name != nil || req.Module != nil || req.Action != nil ||
		req.Resource != nil || (req.IsActive != nil && !*req.IsActive)) {
		return nil, rbac.ErrSystemPermission
	}

	var updated *rbac.Permission
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.permissionRepo.Update(txCtx, permissionID, rbac.PermissionUpdate{
			Name:        utils.SanitizeOptional(req.Name, utils.SanitizeString),
			Description: utils.SanitizeOptional(req.Description, utils.SanitizeString),
			Module:      utils.SanitizeOptional(req.Module, utils.SanitizeString),
			Action:      utils.SanitizeOptional(req.Action, utils.SanitizeString),
			Resource:    utils.SanitizeOptional(req.Resource, utils.SanitizeString),
			IsActive:    req.IsActive,
			ModifierID:  actorID,
		})
		if err != nil {
			return err
		}
		if req.IsActive == nil || *req.IsActive == permission.IsActive {
			return nil
		}
		return s.refreshHolders(txCtx, permissionID)
	})
	if err != nil {
		return nil, err
	}

	return ToPermissionResponse(updated), nil
}

func (s *Service) DeletePermission(ctx context.Context, actorID *uuid.UUID, permissionID uuid.UUID) error {
	permission, err := s.permissionRepo.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	if permission.IsSystem {
		return rbac.ErrSystemPermission
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.permissionRepo.SoftDelete(txCtx, permissionID, actorID); err != nil {
			return err
		}
		return s.refreshHolders(txCtx, permissionID)
	})
	if err != nil {
		return err
	}

	logger.Info("Permission deleted",
		zap.String("permission_id", permissionID.String()),
		zap.String("code", permission.Code),
	)
	return nil
}

// refreshHolders rebuilds the cache of every role with a grant row for
// permissionID.
func (s *Service) refreshHolders(ctx context.Context, permissionID uuid.UUID) error {
	roles, err := s.roleRepo.List(ctx, false)
	if err != nil {
		return err
	}

	for _, role := range roles {
		grants, err := s.assignmentRepo.ListRolePermissions(ctx, role.ID, true)
		if err != nil {
			return err
		}
		for _, g := range grants {
			if g.PermissionID == permissionID {
				if err := s.refreshCache(ctx, role); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

// AssignRole links a user to an active role.
func (s *Service) AssignRole(ctx context.Context, userID uuid.UUID, req *AssignRoleRequest) (*AssignmentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted {
		return nil, domainUser.ErrUserInactive
	}

	role, err := s.roleRepo.GetByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if !role.Grantable() {
		return nil, rbac.ErrRoleUnavailable
	}

	link, err := s.assignmentRepo.AssignRole(ctx, userID, role.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Role assigned",
		zap.String("user_id", userID.String()),
		zap.String("role", role.Code),
	)
	s.publish(ctx, event.New(event.RoleAssigned, userID.String(), s.clock(), map[string]string{
		"role_id":   role.ID.String(),
		"role_code": role.Code,
	}))

	return toAssignmentResponse(link, role.Code), nil
}

// UnassignRole removes the link; the row is kept as deleted so a later
// assignment restores it.
func (s *Service) UnassignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	if err := s.assignmentRepo.UnassignRole(ctx, userID, roleID); err != nil {
		return err
	}

	logger.Info("Role unassigned",
		zap.String("user_id", userID.String()),
		zap.String("role_id", roleID.String()),
	)
	s.publish(ctx, event.New(event.RoleUnassigned, userID.String(), s.clock(), map[string]string{
		"role_id": roleID.String(),
	}))

	return nil
}

func (s *Service) ListUserRoles(ctx context.Context, userID uuid.UUID) ([]*AssignmentResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	links, err := s.assignmentRepo.ListUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*AssignmentResponse, 0, len(links))
	for _, link := range links {
		code := ""
		if role, err := s.roleRepo.GetByID(ctx, link.RoleID); err == nil {
			code = role.Code
		}
		responses = append(responses, toAssignmentResponse(link, code))
	}
	return responses, nil
}

// GrantPermission links a role to an active permission and refreshes the
// role's cache in the same transaction.
func (s *Service) GrantPermission(ctx context.Context, roleID uuid.UUID, req *GrantPermissionRequest) (*GrantResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	var (
		grant      *rbac.RolePermission
		role       *rbac.Role
		permission *rbac.Permission
	)
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		role, err = s.roleRepo.GetByID(txCtx, roleID)
		if err != nil {
			return err
		}
		if role.IsDeleted {
			return rbac.ErrRoleUnavailable
		}

		permission, err = s.permissionRepo.GetByID(txCtx, req.PermissionID)
		if err != nil {
			return err
		}
		if !permission.Grantable() {
			return rbac.ErrPermissionUnavailable
		}

		grant, err = s.assignmentRepo.GrantPermission(txCtx, role.ID, permission.ID)
		if err != nil {
			return err
		}
		return s.refreshCache(txCtx, role)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Permission granted",
		zap.String("role", role.Code),
		zap.String("permission", permission.Code),
	)
	s.publish(ctx, event.New(event.PermissionGranted, role.ID.String(), s.clock(), map[string]string{
		"permission_id":   permission.ID.String(),
		"permission_code": permission.Code,
	}))

	return toGrantResponse(grant, permission.Code), nil
}

// RevokePermission deletes the grant, which is recorded as a soft delete, and
// refreshes the role's cache in the same transaction.
func (s *Service) RevokePermission(ctx context.Context, roleID, permissionID uuid.UUID) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.roleRepo.GetByID(txCtx, roleID)
		if err != nil {
			return err
		}
		if err := s.assignmentRepo.RevokePermission(txCtx, roleID, permissionID); err != nil {
			return err
		}
		return s.refreshCache(txCtx, role)
	})
	if err != nil {
		return err
	}

	logger.Info("Permission revoked",
		zap.String("role_id", roleID.String()),
		zap.String("permission_id", permissionID.String()),
	)
	s.publish(ctx, event.New(event.PermissionRevoked, roleID.String(), s.clock(), map[string]string{
		"permission_id": permissionID.String(),
	}))

	return nil
}

func (s *Service) ListRolePermissions(ctx context.Context, roleID uuid.UUID, includeDeleted bool) ([]*GrantResponse, error) {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return nil, err
	}

	grants, err := s.assignmentRepo.ListRolePermissions(ctx, roleID, includeDeleted)
	if err != nil {
		return nil, err
	}

	responses := make([]*GrantResponse, 0, len(grants))
	for _, g := range grants {
		code := ""
		if p, err := s.permissionRepo.GetByID(ctx, g.PermissionID); err == nil {
			code = p.Code
		}
		responses = append(responses, toGrantResponse(g, code))
	}
	return responses, nil
}

func (s *Service) refreshCache(ctx context.Context, role *rbac.Role) error {
	codes, err := s.assignmentRepo.ActiveGrantCodes(ctx, role.ID)
	if err != nil {
		return fmt.Errorf("failed to read grants of %s: %w", role.Code, err)
	}

	cache := role.Permissions.Rebuild(codes)
	if err := s.roleRepo.SetGrantCache(ctx, role.ID, cache); err != nil {
		return err
	}
	role.Permissions = cache
	return nil
}

// EffectivePermissions returns the sorted set of permission codes the user
// holds through active roles and grants.
func (s *Service) EffectivePermissions(ctx context.Context, userID uuid.UUID) (*EffectivePermissionsResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	codes, err := s.assignmentRepo.EffectivePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}

	return &EffectivePermissionsResponse{UserID: userID, Permissions: codes}, nil
}

func (s *Service) HasPermission(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	codes, err := s.assignmentRepo.EffectivePermissions(ctx, userID)
	if err != nil {
		return false, err
	}

	i := sort.SearchStrings(codes, code)
	return i < len(codes) && codes[i] == code, nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish access event",
			zap.String("type", string(e.Type)),
			zap.String("subject", e.Subject),
			zap.Error(err),
		)
	}
}
