package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
)

// CourseRepository handles course data access. Counter columns (slots,
// enrolled_students) are written only by the CapacityLedger.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, total_capacity, slots, enrolled_students, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.TotalCapacity, &c.Slots, &c.EnrolledStudents, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all courses ordered by code.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, total_capacity, slots, enrolled_students, created_at, updated_at
		 FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.TotalCapacity, &c.Slots,
			&c.EnrolledStudents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a new course with slots = total_capacity.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (code, name, total_capacity, slots)
		 VALUES ($1, $2, $3, $3)
		 RETURNING id, slots, enrolled_students, created_at, updated_at`,
		c.Code, c.Name, c.TotalCapacity,
	).Scan(&c.ID, &c.Slots, &c.EnrolledStudents, &c.CreatedAt, &c.UpdatedAt)
}

// Update changes a course's code, name and ceiling. Raising the ceiling frees
// the difference as new slots; shrinking below seats already taken is
// rejected by the CHECK constraint and surfaces as a storage error.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses
		 SET code = $1, name = $2,
		     slots = slots + ($3 - total_capacity),
		     total_capacity = $3,
		     updated_at = NOW()
		 WHERE id = $4`,
		c.Code, c.Name, c.TotalCapacity, c.ID)
	return err
}

// Delete removes a course. Fails with a FK violation while applicants or
// schedules reference it.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

// GetSlotsTx reads a course's live slot count inside tx without locking.
func (r *CourseRepository) GetSlotsTx(ctx context.Context, tx pgx.Tx, id int) (int, error) {
	var slots int
	err := tx.QueryRow(ctx, `SELECT slots FROM courses WHERE id = $1`, id).Scan(&slots)
	return slots, err
}
