package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

const operatingHourColumns = `id, weekday, is_open, start_time, end_time, created_at, updated_at`

type operatingHourRepository struct {
	BaseRepository
}

func NewOperatingHourRepository(base BaseRepository) repository.OperatingHourRepository {
	return &operatingHourRepository{base}
}

func (r *operatingHourRepository) Create(ctx context.Context, h *model.OperatingHour) error {
	query := `
		INSERT INTO operating_hours (` + operatingHourColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Weekday,
		h.IsOpen,
		h.StartTime,
		h.EndTime,
		h.CreatedAt,
		h.UpdatedAt,
	)
	if err != nil {
		return wrap("create operating hour", err)
	}
	return nil
}

func (r *operatingHourRepository) Get(ctx context.Context, id uuid.UUID) (*model.OperatingHour, error) {
	var h model.OperatingHour
	err := r.db.GetContext(ctx, &h, `SELECT `+operatingHourColumns+` FROM operating_hours WHERE id = $1`, id)
	if err != nil {
		return nil, wrap("get operating hour", err)
	}
	return &h, nil
}

func (r *operatingHourRepository) Update(ctx context.Context, h *model.OperatingHour) error {
	query := `
		UPDATE operating_hours
		SET is_open = $1, start_time = $2, end_time = $3, updated_at = $4
		WHERE id = $5
	`
	return r.exec(ctx, "update operating hour", query,
		h.IsOpen,
		h.StartTime,
		h.EndTime,
		h.UpdatedAt,
		h.ID,
	)
}

func (r *operatingHourRepository) List(ctx context.Context) ([]*model.OperatingHour, error) {
	hours := []*model.OperatingHour{}
	err := r.db.SelectContext(ctx, &hours, `SELECT `+operatingHourColumns+` FROM operating_hours ORDER BY weekday`)
	if err != nil {
		return nil, wrap("list operating hours", err)
	}
	return hours, nil
}
