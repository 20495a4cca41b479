package postgres

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type dashboardRepository struct {
	BaseRepository
}

func NewDashboardRepository(base BaseRepository) repository.DashboardRepository {
	return &dashboardRepository{base}
}

// CountByDay groups appointments by the UTC calendar day of start_time,
// independent of the session time zone. Days without appointments are absent;
// the service zero-fills them.
func (r *dashboardRepository) CountByDay(ctx context.Context, since time.Time) ([]model.DailyCount, error) {
	query := `
		SELECT (start_time AT TIME ZONE 'UTC')::date AS day, COUNT(*) AS count
		FROM appointments
		WHERE start_time >= $1
		GROUP BY day
		ORDER BY day
	`
	counts := []model.DailyCount{}
	if err := r.db.SelectContext(ctx, &counts, query, since); err != nil {
		return nil, wrap("count appointments by day", err)
	}
	return counts, nil
}

func (r *dashboardRepository) CountByService(ctx context.Context) ([]model.ServiceCount, error) {
	query := `
		SELECT COALESCE(s.name, 'Unassigned') AS service_name, COUNT(*) AS count
		FROM appointments a
		LEFT JOIN services s ON s.id = a.service_id
		GROUP BY service_name
		ORDER BY count DESC, service_name
	`
	counts := []model.ServiceCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, wrap("count appointments by service", err)
	}
	return counts, nil
}

func (r *dashboardRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM appointments
		GROUP BY status
		ORDER BY status
	`
	counts := []model.StatusCount{}
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, wrap("count appointments by status", err)
	}
	return counts, nil
}
