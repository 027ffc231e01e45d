package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/admission-backend/internal/middleware"
	"github.com/opencampus/admission-backend/internal/response"
	"github.com/opencampus/admission-backend/internal/service"
	"github.com/opencampus/admission-backend/internal/validator"
)

// AdminUserHandler handles staff account management endpoints.
type AdminUserHandler struct {
	adminService *service.AdminUserService
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(adminService *service.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminService: adminService}
}

// createAdminRequest is the payload for creating a staff account.
type createAdminRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	RoleID   int    `json:"role_id" binding:"required,min=1"`
}

// List godoc
// GET /api/v1/admins
func (h *AdminUserHandler) List(c *gin.Context) {
	admins, err := h.adminService.ListAdmins(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, admins)
}

// Create godoc
// POST /api/v1/admins
func (h *AdminUserHandler) Create(c *gin.Context) {
	var req createAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.CreateAdmin(c.Request.Context(), middleware.GetActor(c), req.Email, req.Name, req.Password, req.RoleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, admin)
}

// Delete godoc
// DELETE /api/v1/admins/:id
func (h *AdminUserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteAdmin(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
