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

// VenueHandler handles venue endpoints.
type VenueHandler struct {
	venueService *service.VenueService
}

// NewVenueHandler creates a new VenueHandler.
func NewVenueHandler(venueService *service.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

// List godoc
// GET /api/v1/venues
func (h *VenueHandler) List(c *gin.Context) {
	venues, err := h.venueService.ListVenues(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, venues)
}

// Get godoc
// GET /api/v1/venues/:id
func (h *VenueHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	venue, err := h.venueService.GetVenue(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, venue)
}

// Create godoc
// POST /api/v1/venues
func (h *VenueHandler) Create(c *gin.Context) {
	var req model.CreateVenueRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	venue, err := h.venueService.CreateVenue(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, venue)
}

// Update godoc
// PUT /api/v1/venues/:id
func (h *VenueHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CreateVenueRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	venue, err := h.venueService.UpdateVenue(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, venue)
}

// Delete godoc
// DELETE /api/v1/venues/:id
func (h *VenueHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.venueService.DeleteVenue(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
