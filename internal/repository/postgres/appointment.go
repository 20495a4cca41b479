package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

const appointmentColumns = `id, patient_id, therapist_id, service_id, location_id,
	start_time, end_time, status, notes, created_at, updated_at`

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, therapist_id, service_id, location_id,
			start_time, end_time, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.TherapistID,
		appointment.ServiceID,
		appointment.LocationID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return wrap("create appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, wrap("get appointment", err)
	}
	return &appointment, nil
}

// Update persists every mutable column. created_at is never rewritten.
func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, therapist_id = $2, service_id = $3, location_id = $4,
			start_time = $5, end_time = $6, status = $7, notes = $8, updated_at = $9
		WHERE id = $10
	`
	return r.exec(ctx, "update appointment", query,
		appointment.PatientID,
		appointment.TherapistID,
		appointment.ServiceID,
		appointment.LocationID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.PatientID != nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, *filters.PatientID)
			argCount++
		}
		if filters.TherapistID != nil {
			query += fmt.Sprintf(" AND therapist_id = $%d", argCount)
			args = append(args, *filters.TherapistID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND start_time >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND start_time < $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY start_time ASC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, wrap("list appointments", err)
	}
	return appointments, nil
}

// FindConflicts returns live appointments of either party intersecting
// [q.Start, q.End). Appointments without an end occupy their start instant.
func (r *appointmentRepository) FindConflicts(ctx context.Context, q *model.ConflictQuery) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE (therapist_id = $1 OR patient_id = $2)
		AND status <> 'CANCELLED'
		AND start_time < $4
		AND (end_time > $3 OR (end_time IS NULL AND start_time >= $3))
	`
	args := []interface{}{q.TherapistID, q.PatientID, q.Start, q.End}
	if q.ExcludeID != nil {
		query += " AND id <> $5"
		args = append(args, *q.ExcludeID)
	}
	query += " ORDER BY start_time ASC"

	conflicts := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &conflicts, query, args...); err != nil {
		return nil, wrap("find conflicting appointments", err)
	}
	return conflicts, nil
}
