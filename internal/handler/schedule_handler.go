package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/opencampus/admission-backend/internal/middleware"
	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/response"
	"github.com/opencampus/admission-backend/internal/service"
	"github.com/opencampus/admission-backend/internal/validator"
	"github.com/rs/zerolog"
)

// ScheduleHandler handles exam and enrollment schedule endpoints.
type ScheduleHandler struct {
	scheduleService   *service.ScheduleService
	assignmentService *service.AssignmentService
	log               zerolog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService *service.ScheduleService, assignmentService *service.AssignmentService, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService:   scheduleService,
		assignmentService: assignmentService,
		log:               log.With().Str("component", "schedule_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/schedules?kind=EXAM|ENROLLMENT&page=&per_page=
func (h *ScheduleHandler) List(c *gin.Context) {
	kind := model.ScheduleKind(c.DefaultQuery("kind", string(model.ScheduleKindExam)))
	if kind != model.ScheduleKindExam && kind != model.ScheduleKindEnrollment {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	page, perPage := pageParams(c)
	schedules, total, err := h.scheduleService.ListSchedules(c.Request.Context(), middleware.GetActor(c), kind, page, perPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, schedules, buildPagination(page, perPage, total))
}

// Get godoc
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	schedule, err := h.scheduleService.GetSchedule(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, schedule)
}

// Roster godoc
// GET /api/v1/schedules/:id/roster?active_only=true
func (h *ScheduleHandler) Roster(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	activeOnly := c.Query("active_only") == "true"
	roster, err := h.scheduleService.GetRoster(c.Request.Context(), middleware.GetActor(c), id, activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, roster)
}

// CheckConflicts godoc
// GET /api/v1/schedules/conflicts?venue_id=&course_id=&date=&start_time=&end_time=&exclude_id=
// Dry-run conflict check for the schedule form.
func (h *ScheduleHandler) CheckConflicts(c *gin.Context) {
	venueID, ok := parseQueryInt(c, "venue_id")
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	startTime, endTime := c.Query("start_time"), c.Query("end_time")
	if startTime == "" || endTime == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	var courseID *int
	if raw := c.Query("course_id"); raw != "" {
		id, ok := parseQueryInt(c, "course_id")
		if !ok {
			return
		}
		courseID = &id
	}

	var excludeID *uuid.UUID
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		excludeID = &id
	}

	conflicts, err := h.scheduleService.CheckConflicts(c.Request.Context(), middleware.GetActor(c), venueID, courseID, date, startTime, endTime, excludeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"conflicts": conflicts})
}

// Create godoc
// POST /api/v1/schedules
// Creates a schedule. Auto-assign enrollment schedules are filled
// synchronously after creation.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req model.CreateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedule, err := h.scheduleService.CreateSchedule(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var assignResult *model.AssignResult
	if schedule.IsAutoAssign && schedule.Kind == model.ScheduleKindEnrollment {
		assignResult, err = h.assignmentService.AutoAssign(c.Request.Context(), schedule.ID)
		if err != nil {
			// The schedule was created; auto-fill failure is not fatal.
			h.log.Error().Err(err).Str("schedule_id", schedule.ID.String()).Msg("Auto-assign after create failed")
		} else if assignResult.Assigned > 0 {
			schedule.CurrentCount += assignResult.Assigned
		}
	}

	response.Success(c, http.StatusCreated, gin.H{
		"schedule":    schedule,
		"auto_assign": assignResult,
	})
}

// Update godoc
// PUT /api/v1/schedules/:id
// Edits a schedule and notifies every actively-assigned person.
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedule, err := h.scheduleService.UpdateSchedule(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, schedule)
}

// Delete godoc
// DELETE /api/v1/schedules/:id
// Deletes a future schedule, reverting every assigned person's status.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteSchedule(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
