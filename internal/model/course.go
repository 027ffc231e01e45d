package model

import "time"

// Course represents a degree program applicants are admitted into.
// Slots is the live inventory of available seats: it is decremented when an
// enrollment assignment is created and restored when one is cancelled.
// Invariant: 0 <= Slots <= TotalCapacity.
type Course struct {
	ID               int       `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	TotalCapacity    int       `json:"total_capacity"`
	Slots            int       `json:"slots"`
	EnrolledStudents int       `json:"enrolled_students"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateCourseRequest is the payload for creating or updating a course.
type CreateCourseRequest struct {
	Code          string `json:"code" binding:"required,min=2,max=20"`
	Name          string `json:"name" binding:"required,min=3,max=255"`
	TotalCapacity int    `json:"total_capacity" binding:"required,min=1"`
}
