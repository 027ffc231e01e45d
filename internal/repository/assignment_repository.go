package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
)

// AssignmentRepository handles assignment data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// GetByID retrieves an assignment by its UUID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, applicant_id, schedule_id, is_auto_assigned, status, created_at, updated_at
		 FROM assignments WHERE id = $1`, id,
	).Scan(&a.ID, &a.ApplicantID, &a.ScheduleID, &a.IsAutoAssigned, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByIDForUpdate retrieves an assignment inside tx with its row locked.
// The state machine relies on this lock so two concurrent cancellations
// cannot both observe PENDING.
func (r *AssignmentRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := tx.QueryRow(ctx,
		`SELECT id, applicant_id, schedule_id, is_auto_assigned, status, created_at, updated_at
		 FROM assignments WHERE id = $1 FOR UPDATE`, id,
	).Scan(&a.ID, &a.ApplicantID, &a.ScheduleID, &a.IsAutoAssigned, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// HasActiveForSchedule reports whether the applicant already holds a PENDING
// assignment on the given schedule.
func (r *AssignmentRepository) HasActiveForSchedule(ctx context.Context, tx pgx.Tx, applicantID int, scheduleID uuid.UUID) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM assignments
		   WHERE applicant_id = $1 AND schedule_id = $2 AND status = $3)`,
		applicantID, scheduleID, model.AssignmentStatusPending,
	).Scan(&exists)
	return exists, err
}

// CreateTx inserts a new PENDING assignment inside tx.
func (r *AssignmentRepository) CreateTx(ctx context.Context, tx pgx.Tx, a *model.Assignment) error {
	return tx.QueryRow(ctx,
		`INSERT INTO assignments (applicant_id, schedule_id, is_auto_assigned, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.ApplicantID, a.ScheduleID, a.IsAutoAssigned, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// UpdateStatusTx sets an assignment's status inside tx.
func (r *AssignmentRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.AssignmentStatus) error {
	_, err := tx.Exec(ctx,
		`UPDATE assignments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// ListActiveBySchedule returns the PENDING assignments on a schedule joined
// with applicant details, ordered by creation time.
func (r *AssignmentRepository) ListActiveBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.RosterEntry, error) {
	return r.listBySchedule(ctx, scheduleID, true)
}

// ListBySchedule returns the full roster of a schedule, any status.
func (r *AssignmentRepository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]model.RosterEntry, error) {
	return r.listBySchedule(ctx, scheduleID, false)
}

func (r *AssignmentRepository) listBySchedule(ctx context.Context, scheduleID uuid.UUID, activeOnly bool) ([]model.RosterEntry, error) {
	query := `SELECT a.id, a.applicant_id, p.applicant_no, p.first_name, p.last_name, p.email,
	                 a.status, a.is_auto_assigned, p.exam_score
	          FROM assignments a
	          JOIN applicants p ON a.applicant_id = p.id
	          WHERE a.schedule_id = $1`
	if activeOnly {
		query += ` AND a.status = 'PENDING'`
	}
	query += ` ORDER BY a.created_at`

	rows, err := r.pool.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRosterEntries(rows)
}

// ListActiveByScheduleForUpdate returns the PENDING assignments on a schedule
// inside tx with the assignment rows locked. Schedule deletion reads the
// roster through this so a concurrent cancel cannot commit between the read
// and the slot releases that follow it.
func (r *AssignmentRepository) ListActiveByScheduleForUpdate(ctx context.Context, tx pgx.Tx, scheduleID uuid.UUID) ([]model.RosterEntry, error) {
	rows, err := tx.Query(ctx,
		`SELECT a.id, a.applicant_id, p.applicant_no, p.first_name, p.last_name, p.email,
		        a.status, a.is_auto_assigned, p.exam_score
		 FROM assignments a
		 JOIN applicants p ON a.applicant_id = p.id
		 WHERE a.schedule_id = $1 AND a.status = 'PENDING'
		 ORDER BY a.created_at
		 FOR UPDATE OF a`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRosterEntries(rows)
}

func collectRosterEntries(rows pgx.Rows) ([]model.RosterEntry, error) {
	var entries []model.RosterEntry
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.AssignmentID, &e.ApplicantID, &e.ApplicantNo, &e.FirstName, &e.LastName,
			&e.Email, &e.Status, &e.IsAutoAssigned, &e.ExamScore); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByScheduleAndApplicantNo resolves a roster row identifier (the applicant
// number from an uploaded file) to the assignment on the given schedule. The
// assignment row is locked: the caller decides whether to release capacity
// based on the status read here, so a concurrent cancel must not slip in
// between.
func (r *AssignmentRepository) GetByScheduleAndApplicantNo(ctx context.Context, tx pgx.Tx, scheduleID uuid.UUID, applicantNo string) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := tx.QueryRow(ctx,
		`SELECT a.id, a.applicant_id, a.schedule_id, a.is_auto_assigned, a.status, a.created_at, a.updated_at
		 FROM assignments a
		 JOIN applicants p ON a.applicant_id = p.id
		 WHERE a.schedule_id = $1 AND p.applicant_no = $2
		 FOR UPDATE OF a`,
		scheduleID, applicantNo,
	).Scan(&a.ID, &a.ApplicantID, &a.ScheduleID, &a.IsAutoAssigned, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteByScheduleTx removes all assignments of a schedule inside tx.
// Used only by schedule deletion, which reverts applicant statuses first.
func (r *AssignmentRepository) DeleteByScheduleTx(ctx context.Context, tx pgx.Tx, scheduleID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM assignments WHERE schedule_id = $1`, scheduleID)
	return err
}
