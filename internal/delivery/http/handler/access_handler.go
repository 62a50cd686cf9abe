package handler

import (
	"net/http"

	"account-rbac-service/internal/domain/rbac"
	"account-rbac-service/internal/middleware"
	"account-rbac-service/internal/usecase/access"
	"account-rbac-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

type listQuery struct {
	IncludeDeleted bool   `form:"include_deleted"`
	Module         string `form:"module"`
}

type AccessHandler struct {
	service *access.Service
}

func NewAccessHandler(service *access.Service) *AccessHandler {
	return &AccessHandler{service: service}
}

// RegisterUserRoutes mounts the read side of a user's access under /users.
func (h *AccessHandler) RegisterUserRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/:id/roles", middleware.RequirePermission(h.service, rbac.PermUserView), h.ListUserRoles)
		users.GET("/:id/permissions", middleware.RequirePermission(h.service, rbac.PermUserView), h.GetEffectivePermissions)
	}
}

func (h *AccessHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("/:id/roles", h.AssignRole)
		users.DELETE("/:id/roles/:role_id", h.UnassignRole)
	}

	roles := router.Group("/roles")
	{
		roles.GET("", h.ListRoles)
		roles.POST("", h.CreateRole)
		roles.GET("/:id", h.GetRole)
		roles.PATCH("/:id", h.UpdateRole)
		roles.DELETE("/:id", h.DeleteRole)
		roles.GET("/:id/permissions", h.ListRolePermissions)
		roles.POST("/:id/permissions", h.GrantPermission)
		roles.DELETE("/:id/permissions/:permission_id", h.RevokePermission)
	}

	permissions := router.Group("/permissions")
	{
		permissions.GET("", h.ListPermissions)
		permissions.POST("", h.CreatePermission)
		permissions.GET("/:id", h.GetPermission)
		permissions.PATCH("/:id", h.UpdatePermission)
		permissions.DELETE("/:id", h.DeletePermission)
	}
}

func (h *AccessHandler) ListRoles(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	roles, err := h.service.ListRoles(c.Request.Context(), query.IncludeDeleted)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Roles retrieved successfully", roles)
}

func (h *AccessHandler) CreateRole(c *gin.Context) {
	var req access.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	role, err := h.service.CreateRole(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Role created successfully", role)
}

func (h *AccessHandler) GetRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.service.GetRole(c.Request.Context(), roleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role retrieved successfully", role)
}

func (h *AccessHandler) UpdateRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req access.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	role, err := h.service.UpdateRole(c.Request.Context(), actorID(c), roleID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", role)
}

func (h *AccessHandler) DeleteRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRole(c.Request.Context(), actorID(c), roleID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role deleted successfully", nil)
}

func (h *AccessHandler) ListPermissions(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	permissions, err := h.service.ListPermissions(c.Request.Context(), query.Module, query.IncludeDeleted)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permissions retrieved successfully", permissions)
}

func (h *AccessHandler) CreatePermission(c *gin.Context) {
	var req access.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	permission, err := h.service.CreatePermission(c.Request.Context(), actorID(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Permission created successfully", permission)
}

func (h *AccessHandler) GetPermission(c *gin.Context) {
	permissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	permission, err := h.service.GetPermission(c.Request.Context(), permissionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission retrieved successfully", permission)
}

func (h *AccessHandler) UpdatePermission(c *gin.Context) {
	permissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req access.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	permission, err := h.service.UpdatePermission(c.Request.Context(), actorID(c), permissionID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission updated successfully", permission)
}

func (h *AccessHandler) DeletePermission(c *gin.Context) {
	permissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePermission(c.Request.Context(), actorID(c), permissionID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission deleted successfully", nil)
}

func (h *AccessHandler) ListUserRoles(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roles, err := h.service.ListUserRoles(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User roles retrieved successfully", roles)
}

func (h *AccessHandler) AssignRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req access.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	assignment, err := h.service.AssignRole(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Role assigned successfully", assignment)
}

func (h *AccessHandler) UnassignRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	roleID, ok := parseIDParam(c, "role_id")
	if !ok {
		return
	}

	if err := h.service.UnassignRole(c.Request.Context(), userID, roleID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role unassigned successfully", nil)
}

func (h *AccessHandler) ListRolePermissions(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	grants, err := h.service.ListRolePermissions(c.Request.Context(), roleID, query.IncludeDeleted)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Role permissions retrieved successfully", grants)
}

func (h *AccessHandler) GrantPermission(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req access.GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	grant, err := h.service.GrantPermission(c.Request.Context(), roleID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Permission granted successfully", grant)
}

func (h *AccessHandler) RevokePermission(c *gin.Context) {
	roleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	permissionID, ok := parseIDParam(c, "permission_id")
	if !ok {
		return
	}

	if err := h.service.RevokePermission(c.Request.Context(), roleID, permissionID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permission revoked successfully", nil)
}

func (h *AccessHandler) GetEffectivePermissions(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	permissions, err := h.service.EffectivePermissions(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Permissions retrieved successfully", permissions)
}
