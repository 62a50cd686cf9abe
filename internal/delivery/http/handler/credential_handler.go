package handler

import (
	"net/http"

	"account-rbac-service/internal/logger"
	"account-rbac-service/internal/middleware"
	"account-rbac-service/internal/usecase/credential"
	"account-rbac-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type tokenQuery struct {
	ValidOnly bool `form:"valid_only"`
}

type CredentialHandler struct {
	service *credential.Service
	// exposeOtp returns the plain OTP code in the response body. Only set
	// outside production, where no delivery channel is wired.
	exposeOtp bool
}

func NewCredentialHandler(service *credential.Service, exposeOtp bool) *CredentialHandler {
	return &CredentialHandler{service: service, exposeOtp: exposeOtp}
}

func (h *CredentialHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/login", h.Login)

	otp := router.Group("/otp")
	{
		otp.POST("/request", h.RequestOtp)
		otp.POST("/verify", h.VerifyOtp)
	}
}

func (h *CredentialHandler) RegisterTokenRoutes(router *gin.RouterGroup) {
	tokens := router.Group("/tokens")
	{
		tokens.GET("", h.ListOwnTokens)
		tokens.POST("/revoke", h.RevokeCurrentToken)
	}
}

func (h *CredentialHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/users/:id/tokens", h.ListUserTokens)
	router.POST("/users/:id/tokens", h.IssueToken)
	router.DELETE("/users/:id/tokens", h.RevokeUserTokens)
	router.DELETE("/tokens/:id", h.RevokeToken)
}

func (h *CredentialHandler) Login(c *gin.Context) {
	var req credential.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ipAddress, userAgent := clientMeta(c)
	auth, err := h.service.Login(c.Request.Context(), &req, ipAddress, userAgent)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", auth)
}

func (h *CredentialHandler) RequestOtp(c *gin.Context) {
	var req credential.RequestOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.IPAddress, req.UserAgent = clientMeta(c)

	challenge, err := h.service.RequestOtp(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !h.exposeOtp {
		challenge.Code = ""
	} else {
		logger.Debug("OTP issued",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("otp_id", challenge.ID.String()),
		)
	}

	utils.SuccessResponse(c, http.StatusCreated, "OTP sent successfully", challenge)
}

func (h *CredentialHandler) VerifyOtp(c *gin.Context) {
	var req credential.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.VerifyOtp(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "OTP verified successfully", result)
}

func (h *CredentialHandler) ListOwnTokens(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.listTokens(c, userID)
}

func (h *CredentialHandler) RevokeCurrentToken(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.service.RevokeToken(c.Request.Context(), principal.TokenID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token revoked successfully", nil)
}

func (h *CredentialHandler) ListUserTokens(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	h.listTokens(c, userID)
}

func (h *CredentialHandler) listTokens(c *gin.Context, userID uuid.UUID) {
	var query tokenQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	tokens, err := h.service.ListUserTokens(c.Request.Context(), userID, query.ValidOnly)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tokens retrieved successfully", tokens)
}

func (h *CredentialHandler) IssueToken(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req credential.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.IPAddress, req.UserAgent = clientMeta(c)

	issued, err := h.service.IssueToken(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Token issued successfully", issued)
}

func (h *CredentialHandler) RevokeUserTokens(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	revoked, err := h.service.RevokeAllForUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tokens revoked successfully", gin.H{"revoked": revoked})
}

func (h *CredentialHandler) RevokeToken(c *gin.Context) {
	tokenID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.RevokeToken(c.Request.Context(), tokenID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token revoked successfully", nil)
}
