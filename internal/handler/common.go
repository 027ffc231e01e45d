package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/opencampus/admission-backend/internal/repository"
	"github.com/opencampus/admission-backend/internal/response"
	"github.com/opencampus/admission-backend/internal/service"
)

// respondServiceError maps service and storage errors onto the response
// envelope. Handlers call it for any error they do not handle specially.
func respondServiceError(c *gin.Context, err error) {
	var conflictErr *service.ConflictError
	var pgErr *pgconn.PgError

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
	case errors.Is(err, service.ErrLeadTimeViolation):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrLeadTimeViolation)
	case errors.Is(err, service.ErrNotEligible):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNotEligible)
	case errors.Is(err, service.ErrDuplicateAssignment):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateAssignment)
	case errors.Is(err, service.ErrSchedulePast):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrSchedulePast)
	case errors.Is(err, service.ErrScheduleInactive):
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrActionForbidden, "The schedule is not active.")
	case errors.Is(err, repository.ErrCapacityExceeded):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrCapacityExceeded)
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrMissingColumns):
		response.Fail(c, http.StatusBadRequest, response.ErrMissingColumns)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.As(err, &conflictErr):
		response.FailWithDetails(c, http.StatusConflict, response.ErrScheduleConflict, conflictErr.Error(), conflictErr.Conflicts)
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case "23505": // unique_violation
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case "23503": // foreign_key_violation
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// parseIDParam parses an integer path parameter.
func parseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// parseUUIDParam parses a UUID path parameter.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// parseQueryInt parses a positive integer query parameter.
func parseQueryInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return 0, false
	}
	return v, true
}

// pageParams reads ?page and ?per_page with defaults.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// buildPagination assembles the pagination block from a total count.
func buildPagination(page, perPage, total int) *response.Pagination {
	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
