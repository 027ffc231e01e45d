package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opencampus/admission-backend/internal/model"
)

// VenueRepository handles venue data access.
type VenueRepository struct {
	pool *pgxpool.Pool
}

// NewVenueRepository creates a new VenueRepository.
func NewVenueRepository(pool *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

// GetByID retrieves a venue by ID.
func (r *VenueRepository) GetByID(ctx context.Context, id int) (*model.Venue, error) {
	v := &model.Venue{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, capacity, is_active FROM venues WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Capacity, &v.IsActive)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// List retrieves all venues ordered by name.
func (r *VenueRepository) List(ctx context.Context) ([]model.Venue, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, capacity, is_active FROM venues ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Capacity, &v.IsActive); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

// Create inserts a new venue.
func (r *VenueRepository) Create(ctx context.Context, v *model.Venue) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO venues (name, capacity, is_active) VALUES ($1, $2, $3) RETURNING id`,
		v.Name, v.Capacity, v.IsActive,
	).Scan(&v.ID)
}

// Update rewrites a venue.
func (r *VenueRepository) Update(ctx context.Context, v *model.Venue) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE venues SET name = $1, capacity = $2, is_active = $3 WHERE id = $4`,
		v.Name, v.Capacity, v.IsActive, v.ID)
	return err
}

// Delete removes a venue. Fails with a FK violation while schedules use it.
func (r *VenueRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM venues WHERE id = $1`, id)
	return err
}
