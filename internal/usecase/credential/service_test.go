package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"account-rbac-service/internal/config"
	"account-rbac-service/internal/domain/audit"
	"account-rbac-service/internal/domain/event"
	domainToken "account-rbac-service/internal/domain/token"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/mocks"
	appErrors "account-rbac-service/pkg/errors"
	"account-rbac-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type testDeps struct {
	tokens    *mocks.MockTokenRepository
	otps      *mocks.MockOtpRepository
	users     *mocks.MockUserRepository
	publisher *mocks.MockPublisher
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "account-rbac-service", AccessTTL: time.Hour},
		OTP: config.OTPConfig{Length: 6, TTL: 5 * time.Minute, MaxAttempts: 3},
	}
}

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := &testDeps{
		tokens:    mocks.NewMockTokenRepository(ctrl),
		otps:      mocks.NewMockOtpRepository(ctrl),
		users:     mocks.NewMockUserRepository(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}

	svc := NewService(deps.tokens, deps.otps, deps.users, passthroughTx{}, deps.publisher,
		testConfig(), func() time.Time { return fixedNow })
	return svc, deps
}

func activeUser() *domainUser.User {
	return &domainUser.User{ID: uuid.New(), Email: "alice@example.com", IsActive: true}
}

// issueStored issues a token and returns it together with the stored record.
func issueStored(t *testing.T, svc *Service, deps *testDeps, user *domainUser.User) (*IssuedToken, *domainToken.Token) {
	t.Helper()
	var stored *domainToken.Token

	deps.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)
	deps.tokens.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tok *domainToken.Token) error {
			tok.ID = uuid.New()
			tok.CreatedAt = fixedNow
			stored = tok
			return nil
		})

	issued, err := svc.IssueToken(context.Background(), user.ID, &IssueTokenRequest{Type: string(domainToken.TypeAccess)})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	return issued, stored
}

func TestIssueTokenStoresHashOnly(t *testing.T) {
	svc, deps := newTestService(t)
	user := activeUser()

	issued, stored := issueStored(t, svc, deps, user)

	if stored.TokenHash == issued.Token {
		t.Fatal("raw token must not be stored")
	}
	if stored.TokenHash != utils.HashToken(issued.Token) {
		t.Fatal("stored hash does not match token")
	}
	if !stored.ExpiresAt.Equal(fixedNow.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", fixedNow.Add(time.Hour), stored.ExpiresAt)
	}
	if issued.TokenID != stored.ID {
		t.Fatal("issued token id does not match stored record")
	}
}

func TestIssueTokenInactiveUser(t *testing.T) {
	svc, deps := newTestService(t)
	user := activeUser()
	user.IsDeleted = true

	deps.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

	_, err := svc.IssueToken(context.Background(), user.ID, &IssueTokenRequest{Type: string(domainToken.TypeAPI)})
	if !errors.Is(err, domainUser.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestIssueTokenRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.IssueToken(context.Background(), uuid.New(), &IssueTokenRequest{Type: "SESSION"})
	if !errors.Is(err, appErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, deps := newTestService(t)
	user := activeUser()
	user.IsAdmin = true
	issued, stored := issueStored(t, svc, deps, user)

	deps.tokens.EXPECT().GetByHash(gomock.Any(), stored.TokenHash).Return(stored, nil)
	deps.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil)

	principal, err := svc.Authenticate(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if principal.UserID != user.ID || principal.TokenID != stored.ID || !principal.IsAdmin {
		t.Fatalf("unexpected principal %+v", principal)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Authenticate(context.Background(), "not-a-jwt")
		if !errors.Is(err, appErrors.ErrUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, deps := newTestService(t)
		issued, stored := issueStored(t, svc, deps, activeUser())
		deps.tokens.EXPECT().GetByHash(gomock.Any(), stored.TokenHash).Return(nil, domainToken.ErrTokenNotFound)

		_, err := svc.Authenticate(context.Background(), issued.Token)
		if !errors.Is(err, domainToken.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("revoked", func(t *testing.T) {
		svc, deps := newTestService(t)
		issued, stored := issueStored(t, svc, deps, activeUser())
		revoked := *stored
		revoked.IsRevoked = true
		deps.tokens.EXPECT().GetByHash(gomock.Any(), stored.TokenHash).Return(&revoked, nil)

		_, err := svc.Authenticate(context.Background(), issued.Token)
		if !errors.Is(err, appErrors.ErrRevoked) {
			t.Fatalf("expected revoked, got %v", err)
		}
	})

	t.Run("deleted owner", func(t *testing.T) {
		svc, deps := newTestService(t)
		user := activeUser()
		issued, stored := issueStored(t, svc, deps, user)
		deleted := *user
		deleted.SoftDelete = audit.SoftDelete{IsDeleted: true, DeletedAt: &fixedNow}
		deps.tokens.EXPECT().GetByHash(gomock.Any(), stored.TokenHash).Return(stored, nil)
		deps.users.EXPECT().GetByID(gomock.Any(), user.ID).Return(&deleted, nil)

		_, err := svc.Authenticate(context.Background(), issued.Token)
		if !errors.Is(err, domainUser.ErrUserInactive) {
			t.Fatalf("expected ErrUserInactive, got %v", err)
		}
	})
}

func TestLoginInvalidPassword(t *testing.T) {
	svc, deps := newTestService(t)
	hash, err := utils.HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatal(err)
	}
	user := activeUser()
	user.PasswordHashed = hash

	deps.users.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

	_, err = svc.Login(context.Background(), &LoginRequest{Email: user.Email, Password: "wrong"}, nil, nil)
	if !errors.Is(err, domainUser.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, deps := newTestService(t)
	deps.users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, domainUser.ErrUserNotFound)

	_, err := svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "x"}, nil, nil)
	if !errors.Is(err, domainUser.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRevokeTokenIsIdempotent(t *testing.T) {
	svc, deps := newTestService(t)
	id := uuid.New()

	deps.tokens.EXPECT().GetByID(gomock.Any(), id).Return(&domainToken.Token{ID: id, IsRevoked: true}, nil)

	if err := svc.RevokeToken(context.Background(), id); err != nil {
		t.Fatalf("RevokeToken() error = %v", err)
	}
}

func TestRevokeToken(t *testing.T) {
	svc, deps := newTestService(t)
	tok := &domainToken.Token{ID: uuid.New(), UserID: uuid.New()}

	deps.tokens.EXPECT().GetByID(gomock.Any(), tok.ID).Return(tok, nil)
	deps.tokens.EXPECT().Revoke(gomock.Any(), tok.ID).Return(nil)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e event.Event) error {
		if e.Type != event.TokenRevoked || e.Subject != tok.ID.String() {
			t.Errorf("unexpected event %+v", e)
		}
		return nil
	})

	if err := svc.RevokeToken(context.Background(), tok.ID); err != nil {
		t.Fatalf("RevokeToken() error = %v", err)
	}
}

func TestRequestOtp(t *testing.T) {
	svc, deps := newTestService(t)
	var stored *domainToken.OtpToken

	lookup := domainToken.OtpLookup{Email: "bob@example.com", Type: domainToken.OtpLogin}
	deps.users.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(nil, domainUser.ErrUserNotFound)
	gomock.InOrder(
		deps.otps.EXPECT().RevokeOutstanding(gomock.Any(), lookup).Return(int64(1), nil),
		deps.otps.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o *domainToken.OtpToken) error {
				o.ID = uuid.New()
				stored = o
				return nil
			}),
	)

	challenge, err := svc.RequestOtp(context.Background(), &RequestOtpRequest{
		Email: "bob@example.com",
		Type:  string(domainToken.OtpLogin),
	})
	if err != nil {
		t.Fatalf("RequestOtp() error = %v", err)
	}

	if len(challenge.Code) != 6 {
		t.Fatalf("expected 6 digit code, got %q", challenge.Code)
	}
	if !utils.CheckPassword(stored.OtpHash, challenge.Code) {
		t.Fatal("stored hash does not match issued code")
	}
	if stored.UserID != nil {
		t.Fatal("code for an unknown email must not reference a user")
	}
	if stored.MaxAttempts != 3 || !stored.ExpiresAt.Equal(fixedNow.Add(5*time.Minute)) {
		t.Fatalf("unexpected stored otp %+v", stored)
	}
}

func newOtp(t *testing.T, code string) *domainToken.OtpToken {
	t.Helper()
	hash, err := utils.HashPassword(code)
	if err != nil {
		t.Fatal(err)
	}
	return &domainToken.OtpToken{
		ID:          uuid.New(),
		Email:       "bob@example.com",
		Type:        domainToken.OtpLogin,
		OtpHash:     hash,
		MaxAttempts: 3,
		ExpiresAt:   fixedNow.Add(time.Minute),
	}
}

func verifyRequest(code string) *VerifyOtpRequest {
	return &VerifyOtpRequest{Email: "bob@example.com", Type: string(domainToken.OtpLogin), Code: code}
}

func TestVerifyOtpSuccess(t *testing.T) {
	svc, deps := newTestService(t)
	otp := newOtp(t, "123456")

	used := *otp
	used.IsUsed, used.Attempts, used.UsedAt = true, 1, &fixedNow

	deps.otps.EXPECT().FindLatest(gomock.Any(), gomock.Any()).Return(otp, nil)
	deps.otps.EXPECT().RecordAttempt(gomock.Any(), otp.ID, true).Return(&used, nil)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	result, err := svc.VerifyOtp(context.Background(), verifyRequest("123456"))
	if err != nil {
		t.Fatalf("VerifyOtp() error = %v", err)
	}
	if result.ID != otp.ID || !result.VerifiedAt.Equal(fixedNow) {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestVerifyOtpMismatch(t *testing.T) {
	svc, deps := newTestService(t)
	otp := newOtp(t, "123456")

	failed := *otp
	failed.Attempts = 1

	deps.otps.EXPECT().FindLatest(gomock.Any(), gomock.Any()).Return(otp, nil)
	deps.otps.EXPECT().RecordAttempt(gomock.Any(), otp.ID, false).Return(&failed, nil)

	_, err := svc.VerifyOtp(context.Background(), verifyRequest("654321"))
	if !errors.Is(err, domainToken.ErrOtpMismatch) {
		t.Fatalf("expected ErrOtpMismatch, got %v", err)
	}
}

func TestVerifyOtpLastAttemptPublishesExhausted(t *testing.T) {
	svc, deps := newTestService(t)
	otp := newOtp(t, "123456")
	otp.Attempts = 2

	exhausted := *otp
	exhausted.Attempts = 3

	deps.otps.EXPECT().FindLatest(gomock.Any(), gomock.Any()).Return(otp, nil)
	deps.otps.EXPECT().RecordAttempt(gomock.Any(), otp.ID, false).Return(&exhausted, nil)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e event.Event) error {
		if e.Type != event.OtpExhausted || e.Subject != otp.ID.String() {
			t.Errorf("unexpected event %+v", e)
		}
		return nil
	})

	_, err := svc.VerifyOtp(context.Background(), verifyRequest("000000"))
	if !errors.Is(err, domainToken.ErrOtpMismatch) {
		t.Fatalf("expected ErrOtpMismatch, got %v", err)
	}
}

func TestVerifyOtpRejectsUnusableCode(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *domainToken.OtpToken)
		want   error
	}{
		{"exhausted", func(o *domainToken.OtpToken) { o.Attempts = 3 }, appErrors.ErrAttemptsExceeded},
		{"expired", func(o *domainToken.OtpToken) { o.ExpiresAt = fixedNow }, appErrors.ErrExpired},
		{"revoked", func(o *domainToken.OtpToken) { o.IsRevoked = true }, appErrors.ErrRevoked},
		{"used", func(o *domainToken.OtpToken) { o.IsUsed = true }, appErrors.ErrAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, deps := newTestService(t)
			otp := newOtp(t, "123456")
			tt.mutate(otp)
			deps.otps.EXPECT().FindLatest(gomock.Any(), gomock.Any()).Return(otp, nil)

			_, err := svc.VerifyOtp(context.Background(), verifyRequest("123456"))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestVerifyOtpLosesRace(t *testing.T) {
	svc, deps := newTestService(t)
	otp := newOtp(t, "123456")

	deps.otps.EXPECT().FindLatest(gomock.Any(), gomock.Any()).Return(otp, nil)
	deps.otps.EXPECT().RecordAttempt(gomock.Any(), otp.ID, true).Return(otp, domainToken.ErrOtpAlreadyUsed)

	_, err := svc.VerifyOtp(context.Background(), verifyRequest("123456"))
	if !errors.Is(err, appErrors.ErrAlreadyUsed) {
		t.Fatalf("expected already used, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	t.Run("publishes counts", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.tokens.EXPECT().RevokeExpired(gomock.Any(), fixedNow).Return(int64(2), nil)
		deps.otps.EXPECT().RevokeExpired(gomock.Any(), fixedNow).Return(int64(1), nil)
		deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e event.Event) error {
			if e.Type != event.CredentialsSwept || e.Attributes["tokens"] != "2" || e.Attributes["otps"] != "1" {
				t.Errorf("unexpected event %+v", e)
			}
			return nil
		})

		result, err := svc.SweepExpired(context.Background())
		if err != nil {
			t.Fatalf("SweepExpired() error = %v", err)
		}
		if result != (SweepResult{Tokens: 2, Otps: 1}) {
			t.Fatalf("unexpected result %+v", result)
		}
	})

	t.Run("quiet when nothing expired", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.tokens.EXPECT().RevokeExpired(gomock.Any(), fixedNow).Return(int64(0), nil)
		deps.otps.EXPECT().RevokeExpired(gomock.Any(), fixedNow).Return(int64(0), nil)

		if _, err := svc.SweepExpired(context.Background()); err != nil {
			t.Fatalf("SweepExpired() error = %v", err)
		}
	})
}

func TestStartExpirySweepStopsOnCancel(t *testing.T) {
	svc, deps := newTestService(t)
	deps.tokens.EXPECT().RevokeExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil).MinTimes(1)
	deps.otps.EXPECT().RevokeExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil).MinTimes(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.StartExpirySweep(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not stop after cancellation")
	}
}
