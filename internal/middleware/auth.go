package middleware

import (
	"context"
	"net/http"
	"strings"

	"account-rbac-service/internal/logger"
	"account-rbac-service/internal/usecase/credential"
	appErrors "account-rbac-service/pkg/errors"
	"account-rbac-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PrincipalKey = "principal"
	UserIDKey    = "userID"
	TokenKey     = "rawToken"
)

// Authenticator resolves a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*credential.Principal, error)
}

func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		token := parts[1]

		principal, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !appErrors.IsKind(err, appErrors.ErrUnauthorized, appErrors.ErrExpired, appErrors.ErrRevoked) {
				logger.Error("Authentication failed",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
				utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
				c.Abort()
				return
			}
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, principal.UserID)
		c.Set(TokenKey, token)

		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, if any.
func GetPrincipal(c *gin.Context) (*credential.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*credential.Principal)
	return principal, ok
}

// GetUserID returns the id of the authenticated caller, if any.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	principal, ok := GetPrincipal(c)
	if !ok {
		return uuid.Nil, false
	}
	return principal.UserID, true
}

// GetRawToken returns the bearer token presented by the caller.
func GetRawToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
