package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"account-rbac-service/internal/domain/rbac"
	domainToken "account-rbac-service/internal/domain/token"
	domainUser "account-rbac-service/internal/domain/user"
	appErrors "account-rbac-service/pkg/errors"
	"account-rbac-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "validation", err: appErrors.NewValidationError(errors.New("email required")), wantStatus: http.StatusBadRequest, wantMessage: "Invalid input"},
		{name: "weak password", err: appErrors.NewAppError("WEAK_PASSWORD", "password too weak", appErrors.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantMessage: "password too weak"},
		{name: "unavailable role", err: rbac.ErrRoleUnavailable, wantStatus: http.StatusBadRequest},
		{name: "duplicate email", err: domainUser.ErrEmailTaken, wantStatus: http.StatusConflict},
		{name: "otp already used", err: domainToken.ErrOtpAlreadyUsed, wantStatus: http.StatusConflict},
		{name: "missing user", err: fmt.Errorf("lookup: %w", domainUser.ErrUserNotFound), wantStatus: http.StatusNotFound},
		{name: "inactive user", err: domainUser.ErrUserInactive, wantStatus: http.StatusForbidden},
		{name: "system role", err: rbac.ErrSystemRole, wantStatus: http.StatusForbidden},
		{name: "bad credentials", err: domainUser.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "otp mismatch", err: fmt.Errorf("%w (2 attempts remaining)", domainToken.ErrOtpMismatch), wantStatus: http.StatusUnauthorized},
		{name: "otp exhausted", err: domainToken.ErrOtpAttemptsExceeded, wantStatus: http.StatusTooManyRequests},
		{name: "otp expired", err: domainToken.ErrOtpExpired, wantStatus: http.StatusGone},
		{name: "otp revoked", err: domainToken.ErrOtpRevoked, wantStatus: http.StatusGone},
		{name: "unexpected", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError, wantMessage: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondWithError(c, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body utils.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body %q", rec.Body.String())
			}
			if body.Status != "error" {
				t.Errorf("status field = %q, want error", body.Status)
			}
			if tt.wantMessage != "" && body.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMessage)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	if _, ok := parseIDParam(c, "id"); ok {
		t.Fatal("parseIDParam accepted a malformed id")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
