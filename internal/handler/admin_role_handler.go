package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/admission-backend/internal/middleware"
	"github.com/opencampus/admission-backend/internal/response"
	"github.com/opencampus/admission-backend/internal/service"
	"github.com/opencampus/admission-backend/internal/validator"
)

// AdminRoleHandler handles role management endpoints.
type AdminRoleHandler struct {
	roleService *service.AdminRoleService
}

// NewAdminRoleHandler creates a new AdminRoleHandler.
func NewAdminRoleHandler(roleService *service.AdminRoleService) *AdminRoleHandler {
	return &AdminRoleHandler{roleService: roleService}
}

// roleRequest is the payload for creating or updating a role.
type roleRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,min=3"`
}

// List godoc
// GET /api/v1/roles
func (h *AdminRoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, roles)
}

// Get godoc
// GET /api/v1/roles/:id
func (h *AdminRoleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.GetRoleByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// Permissions godoc
// GET /api/v1/roles/permissions
// Lists all assignable permission codes.
func (h *AdminRoleHandler) Permissions(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"permissions": h.roleService.GetAllPermissions()})
}

// Create godoc
// POST /api/v1/roles
func (h *AdminRoleHandler) Create(c *gin.Context) {
	var req roleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), middleware.GetActor(c), req.Name, req.Permissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, role)
}

// Update godoc
// PUT /api/v1/roles/:id
func (h *AdminRoleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req roleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), middleware.GetActor(c), id, req.Name, req.Permissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, role)
}

// Delete godoc
// DELETE /api/v1/roles/:id
func (h *AdminRoleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
