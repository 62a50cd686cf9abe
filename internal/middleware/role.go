package middleware

import (
	"context"
	"net/http"

	"account-rbac-service/internal/logger"
	"account-rbac-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissionChecker answers whether a user holds a permission code.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

// RequirePermission lets the request through when the caller holds code
// through an active role. Administrators pass unconditionally.
func RequirePermission(checker PermissionChecker, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if principal.IsAdmin {
			c.Next()
			return
		}

		allowed, err := checker.HasPermission(c.Request.Context(), principal.UserID, code)
		if err != nil {
			logger.Error("Permission check failed",
				zap.String("request_id", GetRequestID(c)),
				zap.String("user_id", principal.UserID.String()),
				zap.String("permission", code),
				zap.Error(err),
			)
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		if !allowed {
			logger.Warn("Permission denied",
				zap.String("request_id", GetRequestID(c)),
				zap.String("user_id", principal.UserID.String()),
				zap.String("permission", code),
			)
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly requires the caller's account to carry the administrator flag.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if !principal.IsAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
