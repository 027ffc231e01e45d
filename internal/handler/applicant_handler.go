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

// ApplicantHandler handles applicant pipeline endpoints.
type ApplicantHandler struct {
	applicantService *service.ApplicantService
}

// NewApplicantHandler creates a new ApplicantHandler.
func NewApplicantHandler(applicantService *service.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{applicantService: applicantService}
}

// List godoc
// GET /api/v1/applicants?status=&page=&per_page=
func (h *ApplicantHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	status := model.ApplicantStatus(c.Query("status"))

	applicants, total, err := h.applicantService.ListApplicants(c.Request.Context(), middleware.GetActor(c), status, page, perPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, applicants, buildPagination(page, perPage, total))
}

// Get godoc
// GET /api/v1/applicants/:id
func (h *ApplicantHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	applicant, err := h.applicantService.GetApplicant(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, applicant)
}

// History godoc
// GET /api/v1/applicants/:id/history
func (h *ApplicantHandler) History(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.applicantService.GetHistory(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, entries)
}

// Create godoc
// POST /api/v1/applicants
func (h *ApplicantHandler) Create(c *gin.Context) {
	var req model.CreateApplicantRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	applicant, err := h.applicantService.CreateApplicant(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, applicant)
}

// Verify godoc
// POST /api/v1/applicants/:id/verify
// Marks a submitted application as verified.
func (h *ApplicantHandler) Verify(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	applicant, err := h.applicantService.VerifyApplicant(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, applicant)
}

// AssignCourse godoc
// POST /api/v1/applicants/:id/course
// Records the admitted course after exam completion.
func (h *ApplicantHandler) AssignCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.AssignCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	applicant, err := h.applicantService.AssignCourse(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, applicant)
}
