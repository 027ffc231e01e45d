package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/admission-backend/internal/middleware"
	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/response"
	"github.com/opencampus/admission-backend/internal/service"
	"github.com/opencampus/admission-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	adminService *service.AdminUserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(adminService *service.AdminUserService) *AuthHandler {
	return &AuthHandler{adminService: adminService}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password, returns JWT with permissions.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.adminService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetProfile godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetProfile(c.Request.Context(), claims.AdminID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin":       admin,
		"permissions": claims.Permissions,
	})
}
