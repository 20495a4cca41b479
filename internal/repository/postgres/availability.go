package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

const availabilityColumns = `id, therapist_id, date, start_time, end_time, created_at, updated_at`

type availabilityRepository struct {
	BaseRepository
}

func NewAvailabilityRepository(base BaseRepository) repository.AvailabilityRepository {
	return &availabilityRepository{base}
}

// Create relies on the (therapist_id, date, start_time) unique index; a
// concurrent duplicate surfaces as ErrDuplicate.
func (r *availabilityRepository) Create(ctx context.Context, a *model.Availability) error {
	query := `
		INSERT INTO availability (` + availabilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TherapistID,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return wrap("create availability", err)
	}
	return nil
}

func (r *availabilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability WHERE id = $1`

	var a model.Availability
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, wrap("get availability", err)
	}
	return &a, nil
}

func (r *availabilityRepository) Update(ctx context.Context, a *model.Availability) error {
	query := `
		UPDATE availability
		SET date = $1, start_time = $2, end_time = $3, updated_at = $4
		WHERE id = $5
	`
	return r.exec(ctx, "update availability", query,
		a.Date,
		a.StartTime,
		a.EndTime,
		a.UpdatedAt,
		a.ID,
	)
}

func (r *availabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "delete availability", `DELETE FROM availability WHERE id = $1`, id)
}

func (r *availabilityRepository) List(ctx context.Context, filters *model.AvailabilityFilters) ([]*model.Availability, error) {
	query := `SELECT ` + availabilityColumns + ` FROM availability WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.TherapistID != nil {
			query += fmt.Sprintf(" AND therapist_id = $%d", argCount)
			args = append(args, *filters.TherapistID)
			argCount++
		}
		if filters.FromDate != nil {
			query += fmt.Sprintf(" AND date >= $%d", argCount)
			args = append(args, *filters.FromDate)
			argCount++
		}
	}

	query += " ORDER BY date, start_time"

	windows := []*model.Availability{}
	if err := r.db.SelectContext(ctx, &windows, query, args...); err != nil {
		return nil, wrap("list availability", err)
	}
	return windows, nil
}

func (r *availabilityRepository) ListForDate(ctx context.Context, therapistID uuid.UUID, date model.Date) ([]*model.Availability, error) {
	query := `
		SELECT ` + availabilityColumns + `
		FROM availability
		WHERE therapist_id = $1 AND date = $2
		ORDER BY start_time
	`
	windows := []*model.Availability{}
	if err := r.db.SelectContext(ctx, &windows, query, therapistID, date); err != nil {
		return nil, wrap("list availability for date", err)
	}
	return windows, nil
}
