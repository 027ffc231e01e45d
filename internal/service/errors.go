package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencampus/admission-backend/internal/model"
)

// Structured reasons the scheduling core surfaces to callers. Handlers map
// these onto response error codes.
var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrLeadTimeViolation   = errors.New("schedule occurs today or tomorrow")
	ErrNotEligible         = errors.New("applicant status does not allow this assignment")
	ErrDuplicateAssignment = errors.New("applicant already actively assigned to this schedule")
	ErrSchedulePast        = errors.New("schedule is in the past")
	ErrScheduleInactive    = errors.New("schedule is not active")
)

// ConflictError reports the schedules that would be double-booked by a
// create or update. The whole operation is aborted; nothing was written.
type ConflictError struct {
	Scope     string // "venue" or "course"
	Conflicts []model.ConflictDescriptor
}

// Error implements error with a human-readable conflict description.
func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		label := c.VenueName
		if e.Scope == "course" && c.CourseName != "" {
			label = c.CourseName
		}
		parts[i] = fmt.Sprintf("%s %s-%s (%s)", c.Date.Format("2006-01-02"), c.StartTime, c.EndTime, label)
	}
	return fmt.Sprintf("%s conflict with: %s", e.Scope, strings.Join(parts, ", "))
}
