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

// AssignmentHandler handles assignment engine endpoints.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// Assign godoc
// POST /api/v1/schedules/:id/assignments
// Manually assigns the selected applicants to a schedule.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	scheduleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.ManualAssignRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.assignmentService.Assign(c.Request.Context(), middleware.GetActor(c), scheduleID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// AutoAssign godoc
// POST /api/v1/schedules/:id/auto-assign
// Triggers an immediate auto-assign run for a schedule.
func (h *AssignmentHandler) AutoAssign(c *gin.Context) {
	scheduleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.assignmentService.AutoAssign(c.Request.Context(), scheduleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Complete godoc
// POST /api/v1/assignments/:id/complete
// Idempotent: completing a terminal assignment returns its current state.
func (h *AssignmentHandler) Complete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Complete(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, assignment)
}

// Cancel godoc
// POST /api/v1/assignments/:id/cancel
// Idempotent: cancelling a terminal assignment returns its current state.
func (h *AssignmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.Cancel(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, assignment)
}
