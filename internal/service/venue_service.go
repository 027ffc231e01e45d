package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/repository"
)

// VenueService handles venue reference data.
type VenueService struct {
	venueRepo *repository.VenueRepository
}

// NewVenueService creates a new VenueService.
func NewVenueService(venueRepo *repository.VenueRepository) *VenueService {
	return &VenueService{venueRepo: venueRepo}
}

// ListVenues retrieves all venues.
func (s *VenueService) ListVenues(ctx context.Context, actor model.Actor) ([]model.Venue, error) {
	if !actor.Can(model.PermissionVenuesRead) {
		return nil, ErrPermissionDenied
	}
	return s.venueRepo.List(ctx)
}

// GetVenue retrieves one venue.
func (s *VenueService) GetVenue(ctx context.Context, actor model.Actor, id int) (*model.Venue, error) {
	if !actor.Can(model.PermissionVenuesRead) {
		return nil, ErrPermissionDenied
	}
	return s.venueRepo.GetByID(ctx, id)
}

// CreateVenue adds a venue.
func (s *VenueService) CreateVenue(ctx context.Context, actor model.Actor, req model.CreateVenueRequest) (*model.Venue, error) {
	if !actor.Can(model.PermissionVenuesWrite) {
		return nil, ErrPermissionDenied
	}

	venue := &model.Venue{Name: req.Name, Capacity: req.Capacity, IsActive: true}
	if req.IsActive != nil {
		venue.IsActive = *req.IsActive
	}
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("create venue: %w", err)
	}
	return venue, nil
}

// UpdateVenue rewrites a venue.
func (s *VenueService) UpdateVenue(ctx context.Context, actor model.Actor, id int, req model.CreateVenueRequest) (*model.Venue, error) {
	if !actor.Can(model.PermissionVenuesWrite) {
		return nil, ErrPermissionDenied
	}

	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}

	venue.Name = req.Name
	venue.Capacity = req.Capacity
	if req.IsActive != nil {
		venue.IsActive = *req.IsActive
	}
	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("update venue: %w", err)
	}
	return venue, nil
}

// DeleteVenue removes a venue not referenced by any schedule.
func (s *VenueService) DeleteVenue(ctx context.Context, actor model.Actor, id int) error {
	if !actor.Can(model.PermissionVenuesWrite) {
		return ErrPermissionDenied
	}
	if err := s.venueRepo.Delete(ctx, id); err != nil {
		return errors.New("venue is in use and cannot be deleted")
	}
	return nil
}
