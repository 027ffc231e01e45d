package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrCapacityExceeded is returned when a reservation would exceed schedule
// capacity or exhaust course slots.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// CapacityLedger is the only component allowed to mutate courses.slots,
// courses.enrolled_students and schedules.current_count. Both operations run
// inside a caller-owned transaction: a failed Reserve must abort the whole
// unit so no assignment row survives without its counter decrement.
type CapacityLedger struct{}

// NewCapacityLedger creates a new CapacityLedger.
func NewCapacityLedger() *CapacityLedger {
	return &CapacityLedger{}
}

// Reserve takes one seat on the schedule and, for enrollment schedules, one
// slot on the course. Rows are locked FOR UPDATE and bounds re-checked inside
// the transaction so two concurrent reservations cannot both observe the last
// free seat. Returns ErrCapacityExceeded when either bound would be violated.
func (l *CapacityLedger) Reserve(ctx context.Context, tx pgx.Tx, scheduleID uuid.UUID, courseID *int) error {
	var capacity, currentCount int
	err := tx.QueryRow(ctx,
		`SELECT capacity, current_count FROM schedules WHERE id = $1 FOR UPDATE`,
		scheduleID,
	).Scan(&capacity, &currentCount)
	if err != nil {
		return err
	}
	if currentCount >= capacity {
		return ErrCapacityExceeded
	}

	if courseID != nil {
		var slots int
		err := tx.QueryRow(ctx,
			`SELECT slots FROM courses WHERE id = $1 FOR UPDATE`, *courseID,
		).Scan(&slots)
		if err != nil {
			return err
		}
		if slots <= 0 {
			return ErrCapacityExceeded
		}

		_, err = tx.Exec(ctx,
			`UPDATE courses
			 SET slots = slots - 1, enrolled_students = enrolled_students + 1, updated_at = NOW()
			 WHERE id = $1`, *courseID)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE schedules SET current_count = current_count + 1, updated_at = NOW() WHERE id = $1`,
		scheduleID)
	return err
}

// Release returns one slot to the course after a cancellation. The increment
// is capped at total_capacity and enrolled_students is floored at zero.
//
// schedules.current_count is deliberately left untouched: occupancy records
// how many seats were ever granted on the schedule, while course slots are
// live inventory. The state machine guarantees Release runs only on a
// PENDING to CANCELLED transition with the assignment row locked.
func (l *CapacityLedger) Release(ctx context.Context, tx pgx.Tx, courseID int) error {
	_, err := tx.Exec(ctx,
		`UPDATE courses
		 SET slots = LEAST(slots + 1, total_capacity),
		     enrolled_students = GREATEST(enrolled_students - 1, 0),
		     updated_at = NOW()
		 WHERE id = $1`, courseID)
	return err
}
