package model

// Venue is a physical location schedules are held in. Venues are reference
// data: the scheduling core reads them but never mutates them.
type Venue struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"is_active"`
}

// CreateVenueRequest is the payload for creating or updating a venue.
type CreateVenueRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	IsActive *bool  `json:"is_active" binding:"omitempty"`
}
