package model

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus enumerates the assignment lifecycle states.
// PENDING is the only non-terminal state.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "PENDING"
	AssignmentStatusCompleted AssignmentStatus = "COMPLETED"
	AssignmentStatusCancelled AssignmentStatus = "CANCELLED"
)

// Terminal reports whether s admits no further transitions.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentStatusCompleted || s == AssignmentStatusCancelled
}

// Assignment links an applicant to a schedule. At most one assignment exists
// per (applicant, schedule) pair; only PENDING assignments count as active.
type Assignment struct {
	ID             uuid.UUID        `json:"id"`
	ApplicantID    int              `json:"applicant_id"`
	ScheduleID     uuid.UUID        `json:"schedule_id"`
	IsAutoAssigned bool             `json:"is_auto_assigned"`
	Status         AssignmentStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// RosterEntry is an assignment joined with its applicant, as listed on a
// schedule roster and in exports.
type RosterEntry struct {
	AssignmentID   uuid.UUID        `json:"assignment_id"`
	ApplicantID    int              `json:"applicant_id"`
	ApplicantNo    string           `json:"applicant_no"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	Email          string           `json:"email"`
	Status         AssignmentStatus `json:"status"`
	IsAutoAssigned bool             `json:"is_auto_assigned"`
	ExamScore      *int             `json:"exam_score,omitempty"`
}

// ManualAssignRequest is the payload for admin-selected assignment.
type ManualAssignRequest struct {
	ApplicantIDs []int `json:"applicant_ids" binding:"required,min=1,dive,min=1"`
}

// SkippedApplicant reports one applicant a batch operation could not process.
type SkippedApplicant struct {
	ApplicantID int    `json:"applicant_id"`
	Reason      string `json:"reason"`
}

// AssignResult summarizes a manual or automatic assignment run.
type AssignResult struct {
	Assigned int                `json:"assigned"`
	Skipped  []SkippedApplicant `json:"skipped"`
}
