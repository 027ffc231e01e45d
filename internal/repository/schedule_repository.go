package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
)

// ScheduleRepository handles schedule data access.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = `s.id, s.kind, s.schedule_date, to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
	        s.venue_id, v.name, s.capacity, s.current_count, s.course_id, COALESCE(c.name, ''),
	        s.instructions, s.is_active, s.is_auto_assign, s.created_at, s.updated_at`

const scheduleJoins = ` FROM schedules s
	 JOIN venues v ON s.venue_id = v.id
	 LEFT JOIN courses c ON s.course_id = c.id`

func scanSchedule(row pgx.Row) (*model.Schedule, error) {
	s := &model.Schedule{}
	err := row.Scan(&s.ID, &s.Kind, &s.Date, &s.StartTime, &s.EndTime,
		&s.VenueID, &s.VenueName, &s.Capacity, &s.CurrentCount, &s.CourseID, &s.CourseName,
		&s.Instructions, &s.IsActive, &s.IsAutoAssign, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a schedule with its venue and course names.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	return scanSchedule(r.pool.QueryRow(ctx,
		`SELECT `+scheduleColumns+scheduleJoins+` WHERE s.id = $1`, id))
}

// GetByIDForUpdate retrieves a schedule inside tx with its row locked.
func (r *ScheduleRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Schedule, error) {
	s := &model.Schedule{}
	err := tx.QueryRow(ctx,
		`SELECT id, kind, schedule_date, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
		        venue_id, capacity, current_count, course_id, instructions, is_active, is_auto_assign,
		        created_at, updated_at
		 FROM schedules WHERE id = $1 FOR UPDATE`, id,
	).Scan(&s.ID, &s.Kind, &s.Date, &s.StartTime, &s.EndTime,
		&s.VenueID, &s.Capacity, &s.CurrentCount, &s.CourseID, &s.Instructions,
		&s.IsActive, &s.IsAutoAssign, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByKindPaginated retrieves schedules of one kind, newest date first.
func (r *ScheduleRepository) ListByKindPaginated(ctx context.Context, kind model.ScheduleKind, limit, offset int) ([]model.Schedule, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM schedules WHERE kind = $1`, kind).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+scheduleJoins+`
		 WHERE s.kind = $1
		 ORDER BY s.schedule_date DESC, s.start_time DESC
		 LIMIT $2 OFFSET $3`, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var schedules []model.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, 0, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, total, rows.Err()
}

// ListAutoAssignable returns active auto-assign schedules of the given kind
// dated after the lead-time cutoff with seats remaining. Used by the exam
// auto-assign worker sweep.
func (r *ScheduleRepository) ListAutoAssignable(ctx context.Context, kind model.ScheduleKind, earliestDate time.Time) ([]model.Schedule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+scheduleColumns+scheduleJoins+`
		 WHERE s.kind = $1 AND s.is_active AND s.is_auto_assign
		   AND s.schedule_date >= $2 AND s.current_count < s.capacity
		 ORDER BY s.schedule_date, s.start_time`, kind, earliestDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []model.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// Create inserts a new schedule with current_count = 0 and is_active = true.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO schedules (kind, schedule_date, start_time, end_time, venue_id, capacity, course_id, instructions, is_auto_assign)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, current_count, is_active, created_at, updated_at`,
		s.Kind, s.Date, s.StartTime, s.EndTime, s.VenueID, s.Capacity, s.CourseID, s.Instructions, s.IsAutoAssign,
	).Scan(&s.ID, &s.CurrentCount, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// Update rewrites the editable fields of a schedule.
func (r *ScheduleRepository) Update(ctx context.Context, s *model.Schedule) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE schedules
		 SET schedule_date = $1, start_time = $2, end_time = $3, venue_id = $4,
		     capacity = $5, instructions = $6, updated_at = NOW()
		 WHERE id = $7`,
		s.Date, s.StartTime, s.EndTime, s.VenueID, s.Capacity, s.Instructions, s.ID)
	return err
}

// DeleteTx removes a schedule row inside a transaction. Assignments must be
// removed first by the caller.
func (r *ScheduleRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	return err
}

// FindConflicts returns the active schedules at the same venue on the same
// date whose [start,end) range overlaps the given one. Touching endpoints
// (end == start) do not conflict. excludeID omits the record being edited.
func (r *ScheduleRepository) FindConflicts(ctx context.Context, venueID int, date time.Time, startTime, endTime string, excludeID *uuid.UUID) ([]model.ConflictDescriptor, error) {
	return r.findConflicts(ctx,
		`SELECT s.id, s.kind, v.name, COALESCE(c.name, ''), s.schedule_date,
		        to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI')`+
			scheduleJoins+`
		 WHERE s.venue_id = $1 AND s.schedule_date = $2 AND s.is_active
		   AND s.start_time < $4::time AND $3::time < s.end_time
		   AND ($5::uuid IS NULL OR s.id <> $5)
		 ORDER BY s.start_time`,
		venueID, date, startTime, endTime, excludeID)
}

// FindCourseConflicts is the course-scope variant of FindConflicts: active
// enrollment schedules for the same course on the same date with overlapping
// time ranges.
func (r *ScheduleRepository) FindCourseConflicts(ctx context.Context, courseID int, date time.Time, startTime, endTime string, excludeID *uuid.UUID) ([]model.ConflictDescriptor, error) {
	return r.findConflicts(ctx,
		`SELECT s.id, s.kind, v.name, COALESCE(c.name, ''), s.schedule_date,
		        to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI')`+
			scheduleJoins+`
		 WHERE s.course_id = $1 AND s.schedule_date = $2 AND s.is_active
		   AND s.start_time < $4::time AND $3::time < s.end_time
		   AND ($5::uuid IS NULL OR s.id <> $5)
		 ORDER BY s.start_time`,
		courseID, date, startTime, endTime, excludeID)
}

func (r *ScheduleRepository) findConflicts(ctx context.Context, query string, args ...interface{}) ([]model.ConflictDescriptor, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conflicts []model.ConflictDescriptor
	for rows.Next() {
		var d model.ConflictDescriptor
		if err := rows.Scan(&d.ScheduleID, &d.Kind, &d.VenueName, &d.CourseName,
			&d.Date, &d.StartTime, &d.EndTime); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, d)
	}
	return conflicts, rows.Err()
}
