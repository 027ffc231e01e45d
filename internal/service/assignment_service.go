package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/notify"
	"github.com/opencampus/admission-backend/internal/repository"
	"github.com/rs/zerolog"
)

// AssignmentService is the assignment engine: manual and automatic seat
// assignment plus the pending/completed/cancelled state machine.
type AssignmentService struct {
	pool           *pgxpool.Pool
	scheduleRepo   *repository.ScheduleRepository
	assignmentRepo *repository.AssignmentRepository
	applicantRepo  *repository.ApplicantRepository
	historyRepo    *repository.StatusHistoryRepository
	ledger         *repository.CapacityLedger
	notifier       notify.Gateway
	log            zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	pool *pgxpool.Pool,
	scheduleRepo *repository.ScheduleRepository,
	assignmentRepo *repository.AssignmentRepository,
	applicantRepo *repository.ApplicantRepository,
	historyRepo *repository.StatusHistoryRepository,
	ledger *repository.CapacityLedger,
	notifier notify.Gateway,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		pool:           pool,
		scheduleRepo:   scheduleRepo,
		assignmentRepo: assignmentRepo,
		applicantRepo:  applicantRepo,
		historyRepo:    historyRepo,
		ledger:         ledger,
		notifier:       notifier,
		log:            log.With().Str("component", "assignment_service").Logger(),
	}
}

// Assign places the selected applicants on a schedule. Applicants that cannot
// be assigned are skipped with a reason, not fatal to the batch. Each
// successful assignment commits in its own transaction so a late capacity
// failure never rolls back earlier seats.
func (s *AssignmentService) Assign(ctx context.Context, actor model.Actor, scheduleID uuid.UUID, req model.ManualAssignRequest) (*model.AssignResult, error) {
	if !actor.Can(model.PermissionAssignmentsWrite) {
		return nil, ErrPermissionDenied
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if !schedule.IsActive {
		return nil, ErrScheduleInactive
	}
	if ViolatesLeadTime(time.Now(), schedule.Date) {
		return nil, ErrLeadTimeViolation
	}
	if len(req.ApplicantIDs) > schedule.Capacity-schedule.CurrentCount {
		return nil, repository.ErrCapacityExceeded
	}

	result := &model.AssignResult{}
	for _, applicantID := range req.ApplicantIDs {
		email, err := s.assignOne(ctx, schedule, applicantID, false, &actor.ID)
		if err != nil {
			result.Skipped = append(result.Skipped, model.SkippedApplicant{
				ApplicantID: applicantID,
				Reason:      err.Error(),
			})
			continue
		}
		result.Assigned++
		s.notifyScheduled(ctx, schedule, applicantID, email)
	}

	return result, nil
}

// AutoAssign fills a schedule's remaining seats from the eligible pool in
// FIFO order: earliest eligibility timestamp first, creation time as the
// stable tie-break. Eligible people the filled schedule cannot seat are
// reported back as skipped with a capacity reason, never silently dropped.
// Invoked synchronously when an auto-assign schedule is created and
// periodically by the background worker. Runs as the system, not an actor.
func (s *AssignmentService) AutoAssign(ctx context.Context, scheduleID uuid.UUID) (*model.AssignResult, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	result := &model.AssignResult{}
	if !schedule.IsActive || ViolatesLeadTime(time.Now(), schedule.Date) {
		return result, nil
	}
	if schedule.Capacity-schedule.CurrentCount <= 0 {
		return result, nil
	}

	var eligible []model.Applicant
	switch schedule.Kind {
	case model.ScheduleKindExam:
		eligible, err = s.applicantRepo.ListEligibleForExam(ctx)
	case model.ScheduleKindEnrollment:
		if schedule.CourseID == nil {
			return nil, errors.New("enrollment schedule has no course")
		}
		eligible, err = s.applicantRepo.ListEligibleForEnrollment(ctx, *schedule.CourseID)
	}
	if err != nil {
		return nil, fmt.Errorf("list eligible applicants: %w", err)
	}

	for i, applicant := range eligible {
		email, err := s.assignOne(ctx, schedule, applicant.ID, true, nil)
		if err != nil {
			if errors.Is(err, repository.ErrCapacityExceeded) {
				// The schedule is full. The applicant whose reserve failed
				// and everyone still behind them stay unassigned; itemize
				// them all so the caller sees who is waiting.
				for _, waiting := range eligible[i:] {
					result.Skipped = append(result.Skipped, model.SkippedApplicant{
						ApplicantID: waiting.ID,
						Reason:      repository.ErrCapacityExceeded.Error(),
					})
				}
				break
			}
			result.Skipped = append(result.Skipped, model.SkippedApplicant{
				ApplicantID: applicant.ID,
				Reason:      err.Error(),
			})
			continue
		}
		result.Assigned++
		s.notifyScheduled(ctx, schedule, applicant.ID, email)
	}

	return result, nil
}

// assignOne reserves capacity and inserts one PENDING assignment as a single
// atomic unit. Any failure rolls back the whole unit: no assignment row may
// exist without its capacity decrement.
func (s *AssignmentService) assignOne(ctx context.Context, schedule *model.Schedule, applicantID int, isAuto bool, performedBy *int) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	applicant, err := s.applicantRepo.GetByIDTx(ctx, tx, applicantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.New("applicant not found")
		}
		return "", fmt.Errorf("get applicant: %w", err)
	}

	var nextStatus model.ApplicantStatus
	switch schedule.Kind {
	case model.ScheduleKindExam:
		if applicant.Status != model.StatusVerified {
			return "", ErrNotEligible
		}
		nextStatus = model.StatusExamScheduled
	case model.ScheduleKindEnrollment:
		if applicant.Status != model.StatusCourseAssigned {
			return "", ErrNotEligible
		}
		if schedule.CourseID == nil || applicant.CourseID == nil || *applicant.CourseID != *schedule.CourseID {
			return "", ErrNotEligible
		}
		nextStatus = model.StatusEnrollmentScheduled
	}

	active, err := s.assignmentRepo.HasActiveForSchedule(ctx, tx, applicantID, schedule.ID)
	if err != nil {
		return "", fmt.Errorf("check existing assignment: %w", err)
	}
	if active {
		return "", ErrDuplicateAssignment
	}

	var courseID *int
	if schedule.Kind == model.ScheduleKindEnrollment {
		courseID = schedule.CourseID
	}
	if err := s.ledger.Reserve(ctx, tx, schedule.ID, courseID); err != nil {
		return "", err
	}

	assignment := &model.Assignment{
		ApplicantID:    applicantID,
		ScheduleID:     schedule.ID,
		IsAutoAssigned: isAuto,
		Status:         model.AssignmentStatusPending,
	}
	if err := s.assignmentRepo.CreateTx(ctx, tx, assignment); err != nil {
		return "", fmt.Errorf("create assignment: %w", err)
	}

	if err := s.applicantRepo.UpdateStatusTx(ctx, tx, applicantID, nextStatus); err != nil {
		return "", fmt.Errorf("update applicant status: %w", err)
	}

	desc := fmt.Sprintf("Assigned to %s schedule on %s %s-%s",
		schedule.Kind, schedule.Date.Format("2006-01-02"), schedule.StartTime, schedule.EndTime)
	if err := s.historyRepo.AppendTx(ctx, tx, applicantID, nextStatus, desc, performedBy); err != nil {
		return "", fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return applicant.Email, nil
}

// Complete transitions a PENDING assignment to COMPLETED and advances the
// person's upstream status. Capacity is not released: the person occupies the
// seat permanently on success. Re-invoking on a terminal assignment is a
// no-op that returns the current state.
func (s *AssignmentService) Complete(ctx context.Context, actor model.Actor, assignmentID uuid.UUID) (*model.Assignment, error) {
	if !actor.Can(model.PermissionAssignmentsWrite) {
		return nil, ErrPermissionDenied
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	assignment, err := s.assignmentRepo.GetByIDForUpdate(ctx, tx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if assignment.Status.Terminal() {
		return assignment, nil
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, assignment.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	nextStatus := model.StatusExamCompleted
	if schedule.Kind == model.ScheduleKindEnrollment {
		nextStatus = model.StatusEnrolled
	}

	if err := s.assignmentRepo.UpdateStatusTx(ctx, tx, assignmentID, model.AssignmentStatusCompleted); err != nil {
		return nil, fmt.Errorf("update assignment status: %w", err)
	}
	if err := s.applicantRepo.UpdateStatusTx(ctx, tx, assignment.ApplicantID, nextStatus); err != nil {
		return nil, fmt.Errorf("update applicant status: %w", err)
	}
	desc := fmt.Sprintf("%s assignment completed", schedule.Kind)
	if err := s.historyRepo.AppendTx(ctx, tx, assignment.ApplicantID, nextStatus, desc, &actor.ID); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	assignment.Status = model.AssignmentStatusCompleted
	if schedule.Kind == model.ScheduleKindEnrollment {
		s.notifyOutcome(ctx, notify.KindEnrollmentCompleted, assignment.ApplicantID)
	}
	return assignment, nil
}

// Cancel transitions a PENDING assignment to CANCELLED and releases the
// course slot for enrollment assignments. The person's upstream status is
// left unchanged; administrators decide downstream handling manually.
// schedule.current_count is also left unchanged. Re-invoking on a terminal
// assignment is a no-op that returns the current state.
func (s *AssignmentService) Cancel(ctx context.Context, actor model.Actor, assignmentID uuid.UUID) (*model.Assignment, error) {
	if !actor.Can(model.PermissionAssignmentsWrite) {
		return nil, ErrPermissionDenied
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	assignment, err := s.assignmentRepo.GetByIDForUpdate(ctx, tx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if assignment.Status.Terminal() {
		return assignment, nil
	}

	schedule, err := s.scheduleRepo.GetByID(ctx, assignment.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	if err := s.assignmentRepo.UpdateStatusTx(ctx, tx, assignmentID, model.AssignmentStatusCancelled); err != nil {
		return nil, fmt.Errorf("update assignment status: %w", err)
	}
	if schedule.Kind == model.ScheduleKindEnrollment && schedule.CourseID != nil {
		if err := s.ledger.Release(ctx, tx, *schedule.CourseID); err != nil {
			return nil, fmt.Errorf("release course slot: %w", err)
		}
	}

	applicant, err := s.applicantRepo.GetByIDTx(ctx, tx, assignment.ApplicantID)
	if err != nil {
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	desc := fmt.Sprintf("%s assignment cancelled", schedule.Kind)
	if err := s.historyRepo.AppendTx(ctx, tx, assignment.ApplicantID, applicant.Status, desc, &actor.ID); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	assignment.Status = model.AssignmentStatusCancelled
	if schedule.Kind == model.ScheduleKindEnrollment {
		s.notifyOutcome(ctx, notify.KindEnrollmentCancelled, assignment.ApplicantID)
	}
	return assignment, nil
}

// notifyScheduled enqueues one assignment notification. Best-effort: failures
// are logged and never roll back the assignment.
func (s *AssignmentService) notifyScheduled(ctx context.Context, schedule *model.Schedule, applicantID int, email string) {
	kind := notify.KindExamScheduled
	if schedule.Kind == model.ScheduleKindEnrollment {
		kind = notify.KindEnrollScheduled
	}
	msg := notify.Message{
		Kind:        kind,
		ApplicantID: applicantID,
		Email:       email,
		Data: map[string]interface{}{
			"date":         schedule.Date.Format("2006-01-02"),
			"start_time":   schedule.StartTime,
			"end_time":     schedule.EndTime,
			"venue":        schedule.VenueName,
			"instructions": schedule.Instructions,
		},
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Int("applicant_id", applicantID).Msg("enqueue assignment notification")
	}
}

func (s *AssignmentService) notifyOutcome(ctx context.Context, kind notify.Kind, applicantID int) {
	applicant, err := s.applicantRepo.GetByID(ctx, applicantID)
	if err != nil {
		s.log.Error().Err(err).Int("applicant_id", applicantID).Msg("load applicant for outcome notification")
		return
	}
	msg := notify.Message{Kind: kind, ApplicantID: applicantID, Email: applicant.Email}
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Int("applicant_id", applicantID).Msg("enqueue outcome notification")
	}
}
