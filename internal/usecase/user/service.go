package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"account-rbac-service/internal/domain/audit"
	"account-rbac-service/internal/domain/event"
	"account-rbac-service/internal/domain/rbac"
	domainToken "account-rbac-service/internal/domain/token"
	"account-rbac-service/internal/domain/tx"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/logger"
	appErrors "account-rbac-service/pkg/errors"
	"account-rbac-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service implements user use cases
type Service struct {
	userRepo       domainUser.Repository
	tokenRepo      domainToken.Repository
	roleRepo       rbac.RoleRepository
	assignmentRepo rbac.AssignmentRepository
	txManager      tx.Manager
	publisher      event.Publisher
	clock          audit.Clock
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	tokenRepo domainToken.Repository,
	roleRepo rbac.RoleRepository,
	assignmentRepo rbac.AssignmentRepository,
	txManager tx.Manager,
	publisher event.Publisher,
	clock audit.Clock,
) *Service {
	if clock == nil {
		clock = audit.SystemClock
	}
	return &Service{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		roleRepo:       roleRepo,
		assignmentRepo: assignmentRepo,
		txManager:      txManager,
		publisher:      publisher,
		clock:          clock,
	}
}

// Create registers a new account and links it to the USER role, plus ADMIN
// for administrators, in one transaction.
func (s *Service) Create(ctx context.Context, actorID *uuid.UUID, req *CreateUserRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), appErrors.ErrInvalidInput)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domainUser.User{
		Email:          utils.SanitizeEmail(req.Email),
		Name:           utils.SanitizeString(req.Name),
		PasswordHashed: hashedPassword,
		PhoneNumber:    utils.SanitizeOptional(req.PhoneNumber, utils.SanitizePhone),
		AvatarURL:      req.AvatarURL,
		DateOfBirth:    req.DateOfBirth,
		Gender:         toGender(req.Gender),
		IsAdmin:        req.IsAdmin,
		IsActive:       true,
		CreatorID:      actorID,
		ModifierID:     actorID,
	}

	roleCodes := []string{rbac.RoleUser}
	if user.IsAdmin {
		roleCodes = append(roleCodes, rbac.RoleAdmin)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		for _, code := range roleCodes {
			if err := s.assignRoleByCode(txCtx, user.ID, code); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainUser.ErrEmailTaken) {
			logger.Warn("User creation with existing email",
				zap.String("email", user.Email),
				zap.String("event", "user_create_failed_duplicate_email"),
			)
		}
		return nil, err
	}

	logger.Info("User created successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Bool("is_admin", user.IsAdmin),
		zap.String("event", "user_created"),
	)
	s.publish(ctx, event.New(event.UserCreated, user.ID.String(), s.clock(), map[string]string{
		"email":    user.Email,
		"is_admin": strconv.FormatBool(user.IsAdmin),
	}))

	return ToUserResponse(user), nil
}

func (s *Service) assignRoleByCode(ctx context.Context, userID uuid.UUID, code string) error {
	role, err := s.roleRepo.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("role %s: %w", code, err)
	}
	if !role.Grantable() {
		return rbac.ErrRoleUnavailable
	}

	_, err = s.assignmentRepo.AssignRole(ctx, userID, role.ID)
	if errors.Is(err, rbac.ErrRoleAlreadyAssigned) {
		return nil
	}
	return err
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		return nil, err
	}

	return ToUserResponse(user), nil
}

func (s *Service) List(ctx context.Context, req *ListUsersRequest) (*UserListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	users, total, err := s.userRepo.List(ctx, domainUser.ListFilter{
		IncludeDeleted: req.IncludeDeleted,
		Search:         utils.SanitizeString(req.Search),
		Limit:          pageSize,
		Offset:         (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, ToUserResponse(user))
	}

	return &UserListResponse{
		Users:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update applies an administrative change. Setting email_verified to true
// for the first time stamps last_login_at in storage.
func (s *Service) Update(ctx context.Context, actorID *uuid.UUID, userID uuid.UUID, req *UpdateUserRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	update := domainUser.Update{
		Name:          utils.SanitizeOptional(req.Name, utils.SanitizeString),
		PhoneNumber:   utils.SanitizeOptional(req.PhoneNumber, utils.SanitizePhone),
		AvatarURL:     req.AvatarURL,
		DateOfBirth:   req.DateOfBirth,
		Gender:        toGender(req.Gender),
		IsAdmin:       req.IsAdmin,
		EmailVerified: req.EmailVerified,
		PhoneVerified: req.PhoneVerified,
		IsActive:      req.IsActive,
		ModifierID:    actorID,
	}

	return s.update(ctx, userID, update)
}

// UpdateProfile changes the caller's own profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	update := domainUser.Update{
		Name:        utils.SanitizeOptional(req.Name, utils.SanitizeString),
		PhoneNumber: utils.SanitizeOptional(req.PhoneNumber, utils.SanitizePhone),
		AvatarURL:   req.AvatarURL,
		DateOfBirth: req.DateOfBirth,
		Gender:      toGender(req.Gender),
		ModifierID:  &userID,
	}

	return s.update(ctx, userID, update)
}

func (s *Service) update(ctx context.Context, userID uuid.UUID, update domainUser.Update) (*UserResponse, error) {
	if update.IsEmpty() {
		return nil, appErrors.NewAppError("NO_CHANGES", "No fields to update", appErrors.ErrInvalidInput)
	}

	user, err := s.userRepo.Update(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	logger.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "user_updated"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewValidationError(err)
	}

	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), appErrors.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.OldPassword) {
		logger.Warn("Password change attempt with invalid old password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "password_change_failed_invalid_old_password"),
		)
		return domainUser.ErrInvalidCredentials
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword, &userID); err != nil {
		return err
	}

	logger.Info("Password changed successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_change_success"),
	)

	return nil
}

// SoftDelete marks the account deleted and revokes its tokens in the same
// transaction.
func (s *Service) SoftDelete(ctx context.Context, actorID *uuid.UUID, userID uuid.UUID) error {
	var revoked int64
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.SoftDelete(txCtx, userID, actorID); err != nil {
			return err
		}

		n, err := s.tokenRepo.RevokeAllForUser(txCtx, userID)
		if err != nil {
			return err
		}
		revoked = n
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("User soft deleted",
		zap.String("user_id", userID.String()),
		zap.Int64("revoked_tokens", revoked),
		zap.String("event", "user_deleted"),
	)
	s.publish(ctx, event.New(event.UserDeleted, userID.String(), s.clock(), map[string]string{
		"revoked_tokens": strconv.FormatInt(revoked, 10),
	}))

	return nil
}

func (s *Service) Restore(ctx context.Context, actorID *uuid.UUID, userID uuid.UUID) (*UserResponse, error) {
	if err := s.userRepo.Restore(ctx, userID, actorID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("User restored",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_restored"),
	)
	s.publish(ctx, event.New(event.UserRestored, userID.String(), s.clock(), nil))

	return ToUserResponse(user), nil
}

// Purge physically removes an account. Tokens and role links are removed with
// it; OTPs and audit references are detached.
func (s *Service) Purge(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return domainUser.ErrSelfPurge
	}

	if err := s.userRepo.Purge(ctx, userID); err != nil {
		return err
	}

	logger.Warn("User purged",
		zap.String("user_id", userID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("event", "user_purged"),
	)
	s.publish(ctx, event.New(event.UserPurged, userID.String(), s.clock(), map[string]string{
		"actor_id": actorID.String(),
	}))

	return nil
}

// EnsureAdmin makes sure an administrator account exists for email and holds
// the ADMIN role. An existing account keeps its password.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, password string) (*UserResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domainUser.ErrUserNotFound):
		return s.Create(ctx, nil, &CreateUserRequest{
			Email:    email,
			Password: password,
			Name:     name,
			IsAdmin:  true,
		})
	case err != nil:
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if !existing.IsAdmin {
			isAdmin := true
			updated, err := s.userRepo.Update(txCtx, existing.ID, domainUser.Update{IsAdmin: &isAdmin})
			if err != nil {
				return err
			}
			existing = updated
		}
		return s.assignRoleByCode(txCtx, existing.ID, rbac.RoleAdmin)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Administrator account ensured",
		zap.String("user_id", existing.ID.String()),
		zap.String("email", existing.Email),
	)

	return ToUserResponse(existing), nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish user event",
			zap.String("type", string(e.Type)),
			zap.String("subject", e.Subject),
			zap.Error(err),
		)
	}
}
