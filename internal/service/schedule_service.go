package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/notify"
	"github.com/opencampus/admission-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ScheduleService handles schedule lifecycle business logic: creation and
// edits gated by the conflict checker, deletion with its status-reverting
// cascade.
type ScheduleService struct {
	pool           *pgxpool.Pool
	scheduleRepo   *repository.ScheduleRepository
	venueRepo      *repository.VenueRepository
	courseRepo     *repository.CourseRepository
	assignmentRepo *repository.AssignmentRepository
	applicantRepo  *repository.ApplicantRepository
	historyRepo    *repository.StatusHistoryRepository
	ledger         *repository.CapacityLedger
	notifier       notify.Gateway
	log            zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(
	pool *pgxpool.Pool,
	scheduleRepo *repository.ScheduleRepository,
	venueRepo *repository.VenueRepository,
	courseRepo *repository.CourseRepository,
	assignmentRepo *repository.AssignmentRepository,
	applicantRepo *repository.ApplicantRepository,
	historyRepo *repository.StatusHistoryRepository,
	ledger *repository.CapacityLedger,
	notifier notify.Gateway,
	log zerolog.Logger,
) *ScheduleService {
	return &ScheduleService{
		pool:           pool,
		scheduleRepo:   scheduleRepo,
		venueRepo:      venueRepo,
		courseRepo:     courseRepo,
		assignmentRepo: assignmentRepo,
		applicantRepo:  applicantRepo,
		historyRepo:    historyRepo,
		ledger:         ledger,
		notifier:       notifier,
		log:            log.With().Str("component", "schedule_service").Logger(),
	}
}

// GetSchedule retrieves one schedule.
func (s *ScheduleService) GetSchedule(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Schedule, error) {
	if !actor.Can(model.PermissionSchedulesRead) {
		return nil, ErrPermissionDenied
	}
	return s.scheduleRepo.GetByID(ctx, id)
}

// ListSchedules retrieves a page of schedules of one kind.
func (s *ScheduleService) ListSchedules(ctx context.Context, actor model.Actor, kind model.ScheduleKind, page, perPage int) ([]model.Schedule, int, error) {
	if !actor.Can(model.PermissionSchedulesRead) {
		return nil, 0, ErrPermissionDenied
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.scheduleRepo.ListByKindPaginated(ctx, kind, perPage, (page-1)*perPage)
}

// GetRoster lists the assignments on a schedule joined with applicant details.
func (s *ScheduleService) GetRoster(ctx context.Context, actor model.Actor, scheduleID uuid.UUID, activeOnly bool) ([]model.RosterEntry, error) {
	if !actor.Can(model.PermissionSchedulesRead) {
		return nil, ErrPermissionDenied
	}
	if activeOnly {
		return s.assignmentRepo.ListActiveBySchedule(ctx, scheduleID)
	}
	return s.assignmentRepo.ListBySchedule(ctx, scheduleID)
}

// CheckConflicts reports the active schedules a prospective slot would
// double-book, in both scopes. Venue scope always applies; course scope only
// when courseID is set (enrollment schedules).
func (s *ScheduleService) CheckConflicts(ctx context.Context, actor model.Actor, venueID int, courseID *int, date time.Time, startTime, endTime string, excludeID *uuid.UUID) ([]model.ConflictDescriptor, error) {
	if !actor.Can(model.PermissionSchedulesRead) {
		return nil, ErrPermissionDenied
	}

	conflicts, err := s.scheduleRepo.FindConflicts(ctx, venueID, date, startTime, endTime, excludeID)
	if err != nil {
		return nil, fmt.Errorf("venue conflicts: %w", err)
	}
	if courseID != nil {
		courseConflicts, err := s.scheduleRepo.FindCourseConflicts(ctx, *courseID, date, startTime, endTime, excludeID)
		if err != nil {
			return nil, fmt.Errorf("course conflicts: %w", err)
		}
		conflicts = append(conflicts, courseConflicts...)
	}
	return conflicts, nil
}

// CreateSchedule validates and inserts a new schedule. On conflict nothing is
// written and the caller receives the full list of conflicting slots.
func (s *ScheduleService) CreateSchedule(ctx context.Context, actor model.Actor, req model.CreateScheduleRequest) (*model.Schedule, error) {
	if !actor.Can(model.PermissionSchedulesWrite) {
		return nil, ErrPermissionDenied
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.New("invalid date format")
	}
	if req.EndTime <= req.StartTime {
		return nil, errors.New("end time must be after start time")
	}

	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if !venue.IsActive {
		return nil, errors.New("venue is not active")
	}
	if req.Capacity > venue.Capacity {
		return nil, fmt.Errorf("capacity %d exceeds venue capacity %d", req.Capacity, venue.Capacity)
	}

	switch req.Kind {
	case model.ScheduleKindEnrollment:
		if req.CourseID == nil {
			return nil, errors.New("enrollment schedule requires a course")
		}
		course, err := s.courseRepo.GetByID(ctx, *req.CourseID)
		if err != nil {
			return nil, fmt.Errorf("get course: %w", err)
		}
		if course.Slots <= 0 {
			return nil, fmt.Errorf("course %s has no available slots", course.Code)
		}
		if req.Capacity > course.Slots {
			return nil, fmt.Errorf("capacity %d exceeds available course slots %d", req.Capacity, course.Slots)
		}
	case model.ScheduleKindExam:
		if req.CourseID != nil {
			return nil, errors.New("exam schedule must not carry a course")
		}
	}

	if err := s.requireNoConflicts(ctx, req.VenueID, req.CourseID, date, req.StartTime, req.EndTime, nil); err != nil {
		return nil, err
	}

	schedule := &model.Schedule{
		Kind:         req.Kind,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		VenueID:      req.VenueID,
		Capacity:     req.Capacity,
		CourseID:     req.CourseID,
		Instructions: req.Instructions,
		IsAutoAssign: req.IsAutoAssign,
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	schedule.VenueName = venue.Name

	return schedule, nil
}

// UpdateSchedule revalidates and rewrites a schedule, then notifies every
// actively-assigned person of the change. Reason is included verbatim in the
// notification.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, actor model.Actor, id uuid.UUID, req model.UpdateScheduleRequest) (*model.Schedule, error) {
	if !actor.Can(model.PermissionSchedulesWrite) {
		return nil, ErrPermissionDenied
	}

	existing, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.New("invalid date format")
	}
	if req.EndTime <= req.StartTime {
		return nil, errors.New("end time must be after start time")
	}

	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if req.Capacity > venue.Capacity {
		return nil, fmt.Errorf("capacity %d exceeds venue capacity %d", req.Capacity, venue.Capacity)
	}
	if req.Capacity < existing.CurrentCount {
		return nil, fmt.Errorf("capacity %d is below the %d people already assigned", req.Capacity, existing.CurrentCount)
	}

	if existing.Kind == model.ScheduleKindEnrollment && existing.CourseID != nil {
		course, err := s.courseRepo.GetByID(ctx, *existing.CourseID)
		if err != nil {
			return nil, fmt.Errorf("get course: %w", err)
		}
		// Seats already granted hold their course slots. Only the extra
		// headroom has to fit in what the course still has free.
		if req.Capacity-existing.CurrentCount > course.Slots {
			return nil, fmt.Errorf("capacity %d exceeds the %d seats already granted plus %d available course slots",
				req.Capacity, existing.CurrentCount, course.Slots)
		}
	}

	if err := s.requireNoConflicts(ctx, req.VenueID, existing.CourseID, date, req.StartTime, req.EndTime, &id); err != nil {
		return nil, err
	}

	updated := &model.Schedule{
		ID:           id,
		Kind:         existing.Kind,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		VenueID:      req.VenueID,
		Capacity:     req.Capacity,
		CourseID:     existing.CourseID,
		Instructions: req.Instructions,
	}
	if err := s.scheduleRepo.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	s.notifyReschedule(ctx, existing, updated, venue.Name, req.Reason)

	return s.scheduleRepo.GetByID(ctx, id)
}

// DeleteSchedule removes a schedule that has not yet taken place. Every
// actively-assigned person's status is reverted to its pre-assignment value
// with a history entry; enrollment cancellations return their course slots.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if !actor.Can(model.PermissionSchedulesWrite) {
		return ErrPermissionDenied
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get schedule: %w", err)
	}
	if InPast(time.Now(), schedule.Date, schedule.EndTime) {
		return ErrSchedulePast
	}

	revertTo := model.StatusVerified
	if schedule.Kind == model.ScheduleKindEnrollment {
		revertTo = model.StatusCourseAssigned
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := s.scheduleRepo.GetByIDForUpdate(ctx, tx, id); err != nil {
		return fmt.Errorf("lock schedule: %w", err)
	}

	// Read the roster after the schedule lock, with the assignment rows
	// locked, so every slot released below matches an assignment that is
	// still PENDING at commit time.
	roster, err := s.assignmentRepo.ListActiveByScheduleForUpdate(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("list active assignments: %w", err)
	}

	if err := s.applicantRepo.RevertStatusBySchedule(ctx, tx, id, revertTo); err != nil {
		return fmt.Errorf("revert statuses: %w", err)
	}
	for _, entry := range roster {
		desc := fmt.Sprintf("Schedule on %s deleted, status reverted", schedule.Date.Format("2006-01-02"))
		if err := s.historyRepo.AppendTx(ctx, tx, entry.ApplicantID, revertTo, desc, &actor.ID); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		if schedule.Kind == model.ScheduleKindEnrollment && schedule.CourseID != nil {
			if err := s.ledger.Release(ctx, tx, *schedule.CourseID); err != nil {
				return fmt.Errorf("release course slot: %w", err)
			}
		}
	}

	if err := s.assignmentRepo.DeleteByScheduleTx(ctx, tx, id); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	if err := s.scheduleRepo.DeleteTx(ctx, tx, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *ScheduleService) requireNoConflicts(ctx context.Context, venueID int, courseID *int, date time.Time, startTime, endTime string, excludeID *uuid.UUID) error {
	conflicts, err := s.scheduleRepo.FindConflicts(ctx, venueID, date, startTime, endTime, excludeID)
	if err != nil {
		return fmt.Errorf("venue conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return &ConflictError{Scope: "venue", Conflicts: conflicts}
	}

	if courseID != nil {
		conflicts, err = s.scheduleRepo.FindCourseConflicts(ctx, *courseID, date, startTime, endTime, excludeID)
		if err != nil {
			return fmt.Errorf("course conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return &ConflictError{Scope: "course", Conflicts: conflicts}
		}
	}
	return nil
}

// notifyReschedule sends one message per actively-assigned person describing
// what changed. Delivery is best-effort; failures are logged, never returned.
func (s *ScheduleService) notifyReschedule(ctx context.Context, old, updated *model.Schedule, newVenueName, reason string) {
	roster, err := s.assignmentRepo.ListActiveBySchedule(ctx, old.ID)
	if err != nil {
		s.log.Error().Err(err).Str("schedule_id", old.ID.String()).Msg("list assignees for reschedule notification")
		return
	}

	kind := notify.KindExamRescheduled
	if old.Kind == model.ScheduleKindEnrollment {
		kind = notify.KindEnrollRescheduled
	}

	payload := reschedulePayload(old, updated, newVenueName, reason)
	for _, entry := range roster {
		msg := notify.Message{
			Kind:        kind,
			ApplicantID: entry.ApplicantID,
			Email:       entry.Email,
			Data:        payload,
		}
		if err := s.notifier.Send(ctx, msg); err != nil {
			s.log.Error().Err(err).Int("applicant_id", entry.ApplicantID).Msg("enqueue reschedule notification")
		}
	}
}

// reschedulePayload lists old and new values side by side so the notification
// template can show exactly what moved. Reason is carried verbatim.
func reschedulePayload(old, updated *model.Schedule, newVenueName, reason string) map[string]interface{} {
	return map[string]interface{}{
		"old_date":       old.Date.Format("2006-01-02"),
		"new_date":       updated.Date.Format("2006-01-02"),
		"old_start_time": old.StartTime,
		"new_start_time": updated.StartTime,
		"old_end_time":   old.EndTime,
		"new_end_time":   updated.EndTime,
		"old_venue":      old.VenueName,
		"new_venue":      newVenueName,
		"reason":         reason,
	}
}
