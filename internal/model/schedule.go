package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleKind distinguishes entrance-exam schedules from enrollment schedules.
type ScheduleKind string

const (
	ScheduleKindExam       ScheduleKind = "EXAM"
	ScheduleKindEnrollment ScheduleKind = "ENROLLMENT"
)

// Schedule represents a dated, timed, venue-bound slot with a capacity.
// Enrollment schedules carry a course; exam schedules do not.
type Schedule struct {
	ID           uuid.UUID    `json:"id"`
	Kind         ScheduleKind `json:"kind"`
	Date         time.Time    `json:"date"`
	StartTime    string       `json:"start_time"` // HH:MM, 24h
	EndTime      string       `json:"end_time"`   // HH:MM, 24h
	VenueID      int          `json:"venue_id"`
	VenueName    string       `json:"venue_name,omitempty"`
	Capacity     int          `json:"capacity"`
	CurrentCount int          `json:"current_count"`
	CourseID     *int         `json:"course_id,omitempty"`
	CourseName   string       `json:"course_name,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	IsActive     bool         `json:"is_active"`
	IsAutoAssign bool         `json:"is_auto_assign"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CreateScheduleRequest is the payload for creating a schedule.
type CreateScheduleRequest struct {
	Kind         ScheduleKind `json:"kind" binding:"required,oneof=EXAM ENROLLMENT"`
	Date         string       `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime    string       `json:"start_time" binding:"required,datetime=15:04"`
	EndTime      string       `json:"end_time" binding:"required,datetime=15:04"`
	VenueID      int          `json:"venue_id" binding:"required,min=1"`
	Capacity     int          `json:"capacity" binding:"required,min=1"`
	CourseID     *int         `json:"course_id" binding:"omitempty,min=1"`
	Instructions string       `json:"instructions" binding:"omitempty,max=2000"`
	IsAutoAssign bool         `json:"is_auto_assign"`
}

// UpdateScheduleRequest is the payload for editing a schedule.
// Reason is mandatory: it is included in the reschedule notification sent to
// every actively-assigned person.
type UpdateScheduleRequest struct {
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime      string `json:"end_time" binding:"required,datetime=15:04"`
	VenueID      int    `json:"venue_id" binding:"required,min=1"`
	Capacity     int    `json:"capacity" binding:"required,min=1"`
	Instructions string `json:"instructions" binding:"omitempty,max=2000"`
	Reason       string `json:"reason" binding:"required,min=3,max=500"`
}

// ConflictDescriptor describes one schedule that overlaps a requested slot.
type ConflictDescriptor struct {
	ScheduleID uuid.UUID    `json:"schedule_id"`
	Kind       ScheduleKind `json:"kind"`
	VenueName  string       `json:"venue_name"`
	CourseName string       `json:"course_name,omitempty"`
	Date       time.Time    `json:"date"`
	StartTime  string       `json:"start_time"`
	EndTime    string       `json:"end_time"`
}
