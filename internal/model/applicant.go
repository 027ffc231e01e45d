package model

import "time"

// ApplicantStatus enumerates the stages of the admission pipeline.
type ApplicantStatus string

const (
	StatusSubmitted           ApplicantStatus = "Submitted"
	StatusVerified            ApplicantStatus = "Verified"
	StatusExamScheduled       ApplicantStatus = "Exam Scheduled"
	StatusExamCompleted       ApplicantStatus = "Exam Completed"
	StatusCourseAssigned      ApplicantStatus = "Course Assigned"
	StatusEnrollmentScheduled ApplicantStatus = "Enrollment Scheduled"
	StatusEnrolled            ApplicantStatus = "Enrolled"
)

// Applicant represents an admission applicant and their pipeline state.
type Applicant struct {
	ID               int             `json:"id"`
	ApplicantNo      string          `json:"applicant_no"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone,omitempty"`
	Status           ApplicantStatus `json:"status"`
	ExamScore        *int            `json:"exam_score,omitempty"`
	CourseID         *int            `json:"course_id,omitempty"`
	VerifiedAt       *time.Time      `json:"verified_at,omitempty"`
	CourseAssignedAt *time.Time      `json:"course_assigned_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateApplicantRequest is the payload for the application intake form.
type CreateApplicantRequest struct {
	ApplicantNo string `json:"applicant_no" binding:"required,min=3,max=32"`
	FirstName   string `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string `json:"last_name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"omitempty,max=32"`
}

// AssignCourseRequest is the payload for assigning a course to an applicant.
type AssignCourseRequest struct {
	CourseID int `json:"course_id" binding:"required,min=1"`
}

// StatusHistoryEntry records one applicant status change.
type StatusHistoryEntry struct {
	ID          int             `json:"id"`
	ApplicantID int             `json:"applicant_id"`
	Status      ApplicantStatus `json:"status"`
	Description string          `json:"description"`
	PerformedBy *int            `json:"performed_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
