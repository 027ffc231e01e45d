package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
)

// StatusHistoryRepository appends to the applicant status-history log.
type StatusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository creates a new StatusHistoryRepository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) *StatusHistoryRepository {
	return &StatusHistoryRepository{pool: pool}
}

// AppendTx records a status change inside tx. performedBy is nil for system
// actions (workers, cascades).
func (r *StatusHistoryRepository) AppendTx(ctx context.Context, tx pgx.Tx, applicantID int, status model.ApplicantStatus, description string, performedBy *int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO status_history (applicant_id, status, description, performed_by)
		 VALUES ($1, $2, $3, $4)`,
		applicantID, status, description, performedBy)
	return err
}

// Append records a status change outside any transaction.
func (r *StatusHistoryRepository) Append(ctx context.Context, applicantID int, status model.ApplicantStatus, description string, performedBy *int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO status_history (applicant_id, status, description, performed_by)
		 VALUES ($1, $2, $3, $4)`,
		applicantID, status, description, performedBy)
	return err
}

// ListByApplicant returns an applicant's history, newest first.
func (r *StatusHistoryRepository) ListByApplicant(ctx context.Context, applicantID int) ([]model.StatusHistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, applicant_id, status, description, performed_by, created_at
		 FROM status_history WHERE applicant_id = $1 ORDER BY created_at DESC, id DESC`,
		applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.StatusHistoryEntry
	for rows.Next() {
		var e model.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.ApplicantID, &e.Status, &e.Description, &e.PerformedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
