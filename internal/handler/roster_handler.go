package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/admission-backend/internal/middleware"
	"github.com/opencampus/admission-backend/internal/response"
	"github.com/opencampus/admission-backend/internal/service"
)

// maxUploadSize bounds roster uploads at 8 MiB.
const maxUploadSize = 8 << 20

// RosterHandler handles bulk roster upload and download endpoints.
type RosterHandler struct {
	rosterService *service.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// Import godoc
// POST /api/v1/schedules/:id/roster/import (multipart, field "file")
// Applies a CSV/XLSX of scores (exam) or outcomes (enrollment) to a roster.
func (h *RosterHandler) Import(c *gin.Context) {
	scheduleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	result, err := h.rosterService.ImportRoster(c.Request.Context(), middleware.GetActor(c), scheduleID, fileHeader.Filename, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ExportCSV godoc
// GET /api/v1/schedules/:id/roster/export?format=csv|xlsx
// Downloads a schedule's roster.
func (h *RosterHandler) Export(c *gin.Context) {
	scheduleID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, filename, err = h.rosterService.ExportRosterXLSX(c.Request.Context(), middleware.GetActor(c), scheduleID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "csv":
		data, filename, err = h.rosterService.ExportRosterCSV(c.Request.Context(), middleware.GetActor(c), scheduleID)
		contentType = "text/csv; charset=utf-8"
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
