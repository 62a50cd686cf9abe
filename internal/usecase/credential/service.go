// Package credential issues and checks bearer tokens and one-time codes.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"account-rbac-service/internal/config"
	"account-rbac-service/internal/domain/audit"
	"account-rbac-service/internal/domain/event"
	domainToken "account-rbac-service/internal/domain/token"
	"account-rbac-service/internal/domain/tx"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/logger"
	appErrors "account-rbac-service/pkg/errors"
	"account-rbac-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	tokenRepo domainToken.Repository
	otpRepo   domainToken.OtpRepository
	userRepo  domainUser.Repository
	txManager tx.Manager
	publisher event.Publisher
	config    *config.Config
	clock     audit.Clock
}

func NewService(
	tokenRepo domainToken.Repository,
	otpRepo domainToken.OtpRepository,
	userRepo domainUser.Repository,
	txManager tx.Manager,
	publisher event.Publisher,
	cfg *config.Config,
	clock audit.Clock,
) *Service {
	if clock == nil {
		clock = audit.SystemClock
	}
	return &Service{
		tokenRepo: tokenRepo,
		otpRepo:   otpRepo,
		userRepo:  userRepo,
		txManager: txManager,
		publisher: publisher,
		config:    cfg,
		clock:     clock,
	}
}

// Login checks the password and issues an access token.
func (s *Service) Login(ctx context.Context, req *LoginRequest, ipAddress, userAgent *string) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	email := utils.SanitizeEmail(req.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", email),
				zap.String("event", "user_not_found"),
			)
			return nil, domainUser.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, domainUser.ErrInvalidCredentials
	}

	issued, err := s.issue(ctx, user, &IssueTokenRequest{
		Type:      string(domainToken.TypeAccess),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{UserID: user.ID, Email: user.Email, Token: issued}, nil
}

// IssueToken signs a token for userID and stores its hash.
func (s *Service) IssueToken(ctx context.Context, userID uuid.UUID, req *IssueTokenRequest) (*IssuedToken, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, user, req)
}

func (s *Service) issue(ctx context.Context, user *domainUser.User, req *IssueTokenRequest) (*IssuedToken, error) {
	if !user.CanAuthenticate() {
		logger.Warn("Token requested for inactive user",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "token_issue_failed_inactive_user"),
		)
		return nil, domainUser.ErrUserInactive
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.config.JWT.AccessTTL
	}

	now := s.clock()
	signed, claims, err := utils.GenerateToken(user.ID, req.Type, s.config.JWT.Secret, s.config.JWT.Issuer, now, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &domainToken.Token{
		UserID:     user.ID,
		Type:       domainToken.Type(req.Type),
		TokenHash:  utils.HashToken(signed),
		ExpiresAt:  claims.ExpiresAt.Time,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		DeviceInfo: req.DeviceInfo,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	logger.Info("Token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("token_id", token.ID.String()),
		zap.String("type", req.Type),
		zap.Time("expires_at", token.ExpiresAt),
	)

	return &IssuedToken{
		Token:     signed,
		TokenID:   token.ID,
		Type:      req.Type,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Authenticate resolves a raw bearer token to its principal. The signature,
// the stored record and the owning account must all be valid.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	claims, err := utils.ValidateToken(raw, s.config.JWT.Secret, s.clock)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainToken.ErrInvalidToken, err)
	}

	token, err := s.tokenRepo.GetByHash(ctx, utils.HashToken(raw))
	if err != nil {
		if errors.Is(err, domainToken.ErrTokenNotFound) {
			return nil, domainToken.ErrInvalidToken
		}
		return nil, err
	}

	if token.UserID != claims.UserID {
		return nil, domainToken.ErrInvalidToken
	}
	if err := token.Check(s.clock()); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, domainToken.ErrInvalidToken
		}
		return nil, err
	}
	if !user.CanAuthenticate() {
		return nil, domainUser.ErrUserInactive
	}

	return &Principal{
		UserID:    user.ID,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		TokenID:   token.ID,
		TokenType: token.Type,
	}, nil
}

// RevokeToken revokes a stored token. Revocation cannot be undone.
func (s *Service) RevokeToken(ctx context.Context, tokenID uuid.UUID) error {
	token, err := s.tokenRepo.GetByID(ctx, tokenID)
	if err != nil {
		return err
	}
	if token.IsRevoked {
		return nil
	}

	if err := s.tokenRepo.Revoke(ctx, tokenID); err != nil {
		return err
	}

	logger.Info("Token revoked",
		zap.String("token_id", tokenID.String()),
		zap.String("user_id", token.UserID.String()),
	)
	s.publish(ctx, event.New(event.TokenRevoked, tokenID.String(), s.clock(), map[string]string{
		"user_id": token.UserID.String(),
	}))

	return nil
}

func (s *Service) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return 0, err
	}

	n, err := s.tokenRepo.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	logger.Info("User tokens revoked",
		zap.String("user_id", userID.String()),
		zap.Int64("count", n),
	)
	if n > 0 {
		s.publish(ctx, event.New(event.TokenRevoked, userID.String(), s.clock(), map[string]string{
			"user_id": userID.String(),
			"count":   strconv.FormatInt(n, 10),
		}))
	}

	return n, nil
}

func (s *Service) ListUserTokens(ctx context.Context, userID uuid.UUID, validOnly bool) ([]*TokenResponse, error) {
	tokens, err := s.tokenRepo.ListByUser(ctx, userID, validOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]*TokenResponse, 0, len(tokens))
	for _, t := range tokens {
		responses = append(responses, ToTokenResponse(t))
	}
	return responses, nil
}

// RequestOtp creates a new code for the recipient and purpose, revoking any
// code still outstanding for them. The plain code is returned for delivery;
// only its hash is stored.
func (s *Service) RequestOtp(ctx context.Context, req *RequestOtpRequest) (*OtpChallenge, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	lookup := domainToken.OtpLookup{
		Email:       utils.SanitizeEmail(req.Email),
		PhoneNumber: utils.SanitizeOptional(req.PhoneNumber, utils.SanitizePhone),
		Type:        domainToken.OtpType(req.Type),
	}

	code, err := utils.GenerateNumericCode(s.config.OTP.Length)
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}
	hash, err := utils.HashPassword(code)
	if err != nil {
		return nil, fmt.Errorf("failed to hash otp: %w", err)
	}

	otp := &domainToken.OtpToken{
		Email:       lookup.Email,
		PhoneNumber: lookup.PhoneNumber,
		OtpHash:     hash,
		Type:        lookup.Type,
		MaxAttempts: s.config.OTP.MaxAttempts,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		DeviceID:    req.DeviceID,
		ExpiresAt:   s.clock().Add(s.config.OTP.TTL),
	}

	switch user, err := s.userRepo.GetByEmail(ctx, lookup.Email); {
	case err == nil:
		otp.UserID = &user.ID
	case !errors.Is(err, domainUser.ErrUserNotFound):
		return nil, err
	}

	var superseded int64
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.otpRepo.RevokeOutstanding(txCtx, lookup)
		if err != nil {
			return err
		}
		superseded = n
		return s.otpRepo.Create(txCtx, otp)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("OTP issued",
		zap.String("otp_id", otp.ID.String()),
		zap.String("type", string(otp.Type)),
		zap.Int64("superseded", superseded),
		zap.Time("expires_at", otp.ExpiresAt),
	)

	return &OtpChallenge{
		ID:          otp.ID,
		Code:        code,
		ExpiresAt:   otp.ExpiresAt,
		MaxAttempts: otp.MaxAttempts,
	}, nil
}

// VerifyOtp checks code against the latest code for the recipient. Every
// attempt counts against the limit; the attempt that uses up the limit
// publishes otp.exhausted.
func (s *Service) VerifyOtp(ctx context.Context, req *VerifyOtpRequest) (*OtpResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewValidationError(err)
	}

	otp, err := s.otpRepo.FindLatest(ctx, domainToken.OtpLookup{
		Email:       utils.SanitizeEmail(req.Email),
		PhoneNumber: utils.SanitizeOptional(req.PhoneNumber, utils.SanitizePhone),
		Type:        domainToken.OtpType(req.Type),
	})
	if err != nil {
		return nil, err
	}

	if err := otp.Check(s.clock()); err != nil {
		logger.Warn("OTP verification rejected",
			zap.String("otp_id", otp.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	matched := utils.CheckPassword(otp.OtpHash, req.Code)

	recorded, err := s.otpRepo.RecordAttempt(ctx, otp.ID, matched)
	if err != nil {
		return nil, err
	}

	if !matched {
		remaining := recorded.RemainingAttempts()
		logger.Warn("OTP mismatch",
			zap.String("otp_id", otp.ID.String()),
			zap.Int("attempts", recorded.Attempts),
			zap.Int("remaining", remaining),
		)
		if remaining == 0 {
			s.publish(ctx, event.New(event.OtpExhausted, otp.ID.String(), s.clock(), map[string]string{
				"email": otp.Email,
				"type":  string(otp.Type),
			}))
		}
		return nil, fmt.Errorf("%w (%d attempts remaining)", domainToken.ErrOtpMismatch, remaining)
	}

	verifiedAt := s.clock()
	if recorded.UsedAt != nil {
		verifiedAt = *recorded.UsedAt
	}

	logger.Info("OTP verified",
		zap.String("otp_id", otp.ID.String()),
		zap.String("type", string(otp.Type)),
	)
	s.publish(ctx, event.New(event.OtpConsumed, otp.ID.String(), verifiedAt, map[string]string{
		"email": otp.Email,
		"type":  string(otp.Type),
	}))

	return &OtpResult{
		ID:         recorded.ID,
		UserID:     recorded.UserID,
		Type:       string(recorded.Type),
		VerifiedAt: verifiedAt,
	}, nil
}

// SweepExpired revokes tokens and unused codes whose expiry has passed. Rows
// are kept.
func (s *Service) SweepExpired(ctx context.Context) (SweepResult, error) {
	now := s.clock()

	tokens, err := s.tokenRepo.RevokeExpired(ctx, now)
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to revoke expired tokens: %w", err)
	}

	otps, err := s.otpRepo.RevokeExpired(ctx, now)
	if err != nil {
		return SweepResult{Tokens: tokens}, fmt.Errorf("failed to revoke expired otps: %w", err)
	}

	result := SweepResult{Tokens: tokens, Otps: otps}
	if tokens+otps > 0 {
		s.publish(ctx, event.New(event.CredentialsSwept, "credentials", now, map[string]string{
			"tokens": strconv.FormatInt(tokens, 10),
			"otps":   strconv.FormatInt(otps, 10),
		}))
	}

	return result, nil
}

// StartExpirySweep runs SweepExpired every interval until ctx is done.
func (s *Service) StartExpirySweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Credential expiry sweep started",
		zap.Duration("interval", interval),
	)

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Credential expiry sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	result, err := s.SweepExpired(ctx)
	if err != nil {
		logger.Error("Failed to sweep expired credentials", zap.Error(err))
		return
	}

	logger.Debug("Expired credentials swept",
		zap.Int64("tokens", result.Tokens),
		zap.Int64("otps", result.Otps),
	)
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish credential event",
			zap.String("type", string(e.Type)),
			zap.String("subject", e.Subject),
			zap.Error(err),
		)
	}
}
