package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

const patientSelect = `
	SELECT p.id, p.user_id, p.date_of_birth, p.medical_history, p.emergency_contact,
		p.assigned_plan, p.primary_therapist_id, p.status, p.created_at, p.updated_at,
		u.first_name, u.last_name, u.email
	FROM patient_profiles p
	JOIN users u ON u.id = p.user_id
`

const therapistSelect = `
	SELECT t.id, t.user_id, t.license_number, t.specialization, t.bio, t.status,
		t.focus_areas, t.date_of_birth, t.gender, t.created_at, t.updated_at,
		u.first_name, u.last_name, u.email
	FROM therapist_profiles t
	JOIN users u ON u.id = t.user_id
`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error) {
	var profile model.PatientProfile
	if err := r.db.GetContext(ctx, &profile, patientSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, wrap("get patient", err)
	}
	return &profile, nil
}

func (r *patientRepository) Update(ctx context.Context, profile *model.PatientProfile) error {
	query := `
		UPDATE patient_profiles
		SET date_of_birth = $1, medical_history = $2, emergency_contact = $3,
			assigned_plan = $4, primary_therapist_id = $5, status = $6, updated_at = $7
		WHERE id = $8
	`
	return r.exec(ctx, "update patient", query,
		profile.DateOfBirth,
		profile.MedicalHistory,
		profile.EmergencyContact,
		profile.AssignedPlan,
		profile.PrimaryTherapistID,
		profile.Status,
		profile.UpdatedAt,
		profile.ID,
	)
}

// List returns patients ordered by name. A therapist filter keeps only
// patients with at least one appointment with that therapist.
func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.PatientProfile, error) {
	query := patientSelect + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.TherapistID != nil {
			query += fmt.Sprintf(` AND EXISTS (
				SELECT 1 FROM appointments a
				WHERE a.patient_id = p.id AND a.therapist_id = $%d)`, argCount)
			args = append(args, *filters.TherapistID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND p.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
	}

	query += " ORDER BY u.last_name, u.first_name, p.id"

	patients := []*model.PatientProfile{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, wrap("list patients", err)
	}
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM patient_profiles`); err != nil {
		return 0, wrap("count patients", err)
	}
	return n, nil
}

type therapistRepository struct {
	BaseRepository
}

func NewTherapistRepository(base BaseRepository) repository.TherapistRepository {
	return &therapistRepository{base}
}

func (r *therapistRepository) Get(ctx context.Context, id uuid.UUID) (*model.TherapistProfile, error) {
	var profile model.TherapistProfile
	if err := r.db.GetContext(ctx, &profile, therapistSelect+` WHERE t.id = $1`, id); err != nil {
		return nil, wrap("get therapist", err)
	}
	return &profile, nil
}

func (r *therapistRepository) Update(ctx context.Context, profile *model.TherapistProfile) error {
	query := `
		UPDATE therapist_profiles
		SET license_number = $1, specialization = $2, bio = $3, status = $4,
			focus_areas = $5, date_of_birth = $6, gender = $7, updated_at = $8
		WHERE id = $9
	`
	return r.exec(ctx, "update therapist", query,
		profile.LicenseNumber,
		profile.Specialization,
		profile.Bio,
		profile.Status,
		profile.FocusAreas,
		profile.DateOfBirth,
		profile.Gender,
		profile.UpdatedAt,
		profile.ID,
	)
}

func (r *therapistRepository) List(ctx context.Context, filters *model.TherapistFilters) ([]*model.TherapistProfile, error) {
	query := therapistSelect
	args := []interface{}{}

	if filters != nil && filters.Status != "" {
		query += " WHERE t.status = $1"
		args = append(args, filters.Status)
	}
	query += " ORDER BY u.last_name, u.first_name, t.id"

	therapists := []*model.TherapistProfile{}
	if err := r.db.SelectContext(ctx, &therapists, query, args...); err != nil {
		return nil, wrap("list therapists", err)
	}
	return therapists, nil
}

func (r *therapistRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM therapist_profiles`); err != nil {
		return 0, wrap("count therapists", err)
	}
	return n, nil
}
