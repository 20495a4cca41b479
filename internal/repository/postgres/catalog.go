package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

type serviceRepository struct {
	BaseRepository
}

func NewServiceRepository(base BaseRepository) repository.ServiceRepository {
	return &serviceRepository{base}
}

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (
			id, name, description, duration_minutes, price, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		svc.Name,
		svc.Description,
		svc.DurationMinutes,
		svc.Price,
		svc.Active,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		return wrap("create service", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, name, description, duration_minutes, price, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var svc model.Service
	if err := r.db.GetContext(ctx, &svc, query, id); err != nil {
		return nil, wrap("get service", err)
	}
	return &svc, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, duration_minutes = $3, price = $4,
			active = $5, updated_at = $6
		WHERE id = $7
	`
	return r.exec(ctx, "update service", query,
		svc.Name,
		svc.Description,
		svc.DurationMinutes,
		svc.Price,
		svc.Active,
		svc.UpdatedAt,
		svc.ID,
	)
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "delete service", `DELETE FROM services WHERE id = $1`, id)
}

func (r *serviceRepository) List(ctx context.Context, filters *model.ServiceFilters) ([]*model.Service, error) {
	query := `
		SELECT id, name, description, duration_minutes, price, active, created_at, updated_at
		FROM services
	`
	if filters != nil && filters.ActiveOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY name, id"

	services := []*model.Service{}
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, wrap("list services", err)
	}
	return services, nil
}

func (r *serviceRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var referenced bool
	err := r.db.GetContext(ctx, &referenced,
		`SELECT EXISTS(SELECT 1 FROM appointments WHERE service_id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check service references: %w", err)
	}
	return referenced, nil
}

type locationRepository struct {
	BaseRepository
}

func NewLocationRepository(base BaseRepository) repository.LocationRepository {
	return &locationRepository{base}
}

func (r *locationRepository) Create(ctx context.Context, loc *model.Location) error {
	query := `
		INSERT INTO locations (id, name, address, room_count, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		loc.ID,
		loc.Name,
		loc.Address,
		loc.RoomCount,
		loc.Active,
		loc.CreatedAt,
		loc.UpdatedAt,
	)
	if err != nil {
		return wrap("create location", err)
	}
	return nil
}

func (r *locationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	query := `
		SELECT id, name, address, room_count, active, created_at, updated_at
		FROM locations
		WHERE id = $1
	`
	var loc model.Location
	if err := r.db.GetContext(ctx, &loc, query, id); err != nil {
		return nil, wrap("get location", err)
	}
	return &loc, nil
}

func (r *locationRepository) Update(ctx context.Context, loc *model.Location) error {
	query := `
		UPDATE locations
		SET name = $1, address = $2, room_count = $3, active = $4, updated_at = $5
		WHERE id = $6
	`
	return r.exec(ctx, "update location", query,
		loc.Name,
		loc.Address,
		loc.RoomCount,
		loc.Active,
		loc.UpdatedAt,
		loc.ID,
	)
}

func (r *locationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "delete location", `DELETE FROM locations WHERE id = $1`, id)
}

func (r *locationRepository) List(ctx context.Context, activeOnly bool) ([]*model.Location, error) {
	query := `
		SELECT id, name, address, room_count, active, created_at, updated_at
		FROM locations
	`
	if activeOnly {
		query += " WHERE active = TRUE"
	}
	query += " ORDER BY name, id"

	locations := []*model.Location{}
	if err := r.db.SelectContext(ctx, &locations, query); err != nil {
		return nil, wrap("list locations", err)
	}
	return locations, nil
}
