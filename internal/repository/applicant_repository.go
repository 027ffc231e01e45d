package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
)

// ApplicantRepository handles applicant data access, including the upstream
// status writes the scheduling core performs.
type ApplicantRepository struct {
	pool *pgxpool.Pool
}

// NewApplicantRepository creates a new ApplicantRepository.
func NewApplicantRepository(pool *pgxpool.Pool) *ApplicantRepository {
	return &ApplicantRepository{pool: pool}
}

const applicantColumns = `id, applicant_no, first_name, last_name, email, phone, status,
	        exam_score, course_id, verified_at, course_assigned_at, created_at, updated_at`

func scanApplicant(row pgx.Row) (*model.Applicant, error) {
	a := &model.Applicant{}
	err := row.Scan(&a.ID, &a.ApplicantNo, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.Status, &a.ExamScore, &a.CourseID, &a.VerifiedAt, &a.CourseAssignedAt,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an applicant by ID.
func (r *ApplicantRepository) GetByID(ctx context.Context, id int) (*model.Applicant, error) {
	return scanApplicant(r.pool.QueryRow(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id))
}

// GetByIDTx retrieves an applicant by ID inside tx.
func (r *ApplicantRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Applicant, error) {
	return scanApplicant(tx.QueryRow(ctx,
		`SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id))
}

// ListPaginated retrieves applicants filtered by status (empty = all).
func (r *ApplicantRepository) ListPaginated(ctx context.Context, status model.ApplicantStatus, limit, offset int) ([]model.Applicant, int, error) {
	countQuery := `SELECT COUNT(*) FROM applicants`
	query := `SELECT ` + applicantColumns + ` FROM applicants`

	var total int
	var rows pgx.Rows
	var err error

	if status != "" {
		if err = r.pool.QueryRow(ctx, countQuery+` WHERE status = $1`, status).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.pool.Query(ctx, query+` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			status, limit, offset)
	} else {
		if err = r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.pool.Query(ctx, query+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var applicants []model.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, 0, err
		}
		applicants = append(applicants, *a)
	}
	return applicants, total, rows.Err()
}

// Create inserts a new applicant in Submitted status.
func (r *ApplicantRepository) Create(ctx context.Context, a *model.Applicant) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO applicants (applicant_no, first_name, last_name, email, phone, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		a.ApplicantNo, a.FirstName, a.LastName, a.Email, a.Phone, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// SetVerified marks an applicant Verified and stamps the eligibility time
// used for FIFO exam auto-assignment.
func (r *ApplicantRepository) SetVerified(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE applicants SET status = $1, verified_at = NOW(), updated_at = NOW() WHERE id = $2`,
		model.StatusVerified, id)
	return err
}

// SetCourseAssigned records the applicant's course and stamps the eligibility
// time used for FIFO enrollment auto-assignment.
func (r *ApplicantRepository) SetCourseAssigned(ctx context.Context, id, courseID int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE applicants
		 SET status = $1, course_id = $2, course_assigned_at = NOW(), updated_at = NOW()
		 WHERE id = $3`,
		model.StatusCourseAssigned, courseID, id)
	return err
}

// UpdateStatusTx sets an applicant's pipeline status inside tx.
func (r *ApplicantRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int, status model.ApplicantStatus) error {
	_, err := tx.Exec(ctx,
		`UPDATE applicants SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

// SetExamScoreTx records a posted exam score and advances the applicant to
// Exam Completed inside tx.
func (r *ApplicantRepository) SetExamScoreTx(ctx context.Context, tx pgx.Tx, id, score int) error {
	_, err := tx.Exec(ctx,
		`UPDATE applicants SET exam_score = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		score, model.StatusExamCompleted, id)
	return err
}

// ListEligibleForExam returns every Verified applicant holding no active exam
// assignment, in FIFO order: earliest verification first, creation time as
// the stable tie-break. The full pool is returned so callers can report the
// people a filled schedule leaves waiting.
func (r *ApplicantRepository) ListEligibleForExam(ctx context.Context) ([]model.Applicant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+applicantColumns+`
		 FROM applicants p
		 WHERE p.status = $1
		   AND NOT EXISTS (
		     SELECT 1 FROM assignments a
		     JOIN schedules s ON a.schedule_id = s.id
		     WHERE a.applicant_id = p.id AND a.status = 'PENDING' AND s.kind = 'EXAM')
		 ORDER BY p.verified_at, p.created_at`, model.StatusVerified)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplicants(rows)
}

// ListEligibleForEnrollment returns every Course Assigned applicant of the
// given course holding no active enrollment assignment, in FIFO order.
func (r *ApplicantRepository) ListEligibleForEnrollment(ctx context.Context, courseID int) ([]model.Applicant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+applicantColumns+`
		 FROM applicants p
		 WHERE p.status = $1 AND p.course_id = $2
		   AND NOT EXISTS (
		     SELECT 1 FROM assignments a
		     JOIN schedules s ON a.schedule_id = s.id
		     WHERE a.applicant_id = p.id AND a.status = 'PENDING' AND s.kind = 'ENROLLMENT')
		 ORDER BY p.course_assigned_at, p.created_at`, model.StatusCourseAssigned, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplicants(rows)
}

func collectApplicants(rows pgx.Rows) ([]model.Applicant, error) {
	var applicants []model.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		applicants = append(applicants, *a)
	}
	return applicants, rows.Err()
}

// RevertStatusBySchedule reverts all applicants with an active assignment on
// the schedule to the given status inside tx. Used by schedule deletion.
func (r *ApplicantRepository) RevertStatusBySchedule(ctx context.Context, tx pgx.Tx, scheduleID uuid.UUID, status model.ApplicantStatus) error {
	_, err := tx.Exec(ctx,
		`UPDATE applicants SET status = $1, updated_at = NOW()
		 WHERE id IN (
		   SELECT applicant_id FROM assignments
		   WHERE schedule_id = $2 AND status = 'PENDING')`,
		status, scheduleID)
	return err
}
