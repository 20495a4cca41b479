package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

const userColumns = `id, email, username, password_hash, first_name, last_name, role,
	is_superuser, phone_number, profile_image_url, created_at, updated_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

const insertUserQuery = `
	INSERT INTO users (
		id, email, username, password_hash, first_name, last_name, role,
		is_superuser, phone_number, profile_image_url, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func userArgs(user *model.User) []interface{} {
	return []interface{}{
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsSuperuser,
		user.PhoneNumber,
		user.ProfileImageURL,
		user.CreatedAt,
		user.UpdatedAt,
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if _, err := r.db.ExecContext(ctx, insertUserQuery, userArgs(user)...); err != nil {
		return wrap("create user", err)
	}
	return nil
}

// Register writes the user and at most one role profile in one transaction.
func (r *userRepository) Register(ctx context.Context, user *model.User, patient *model.PatientProfile, therapist *model.TherapistProfile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, insertUserQuery, userArgs(user)...); err != nil {
			return wrap("create user", err)
		}

		if patient != nil {
			patient.UserID = user.ID
			_, err := tx.ExecContext(ctx, `
				INSERT INTO patient_profiles (
					id, user_id, date_of_birth, medical_history, emergency_contact,
					assigned_plan, primary_therapist_id, status, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				patient.ID,
				patient.UserID,
				patient.DateOfBirth,
				patient.MedicalHistory,
				patient.EmergencyContact,
				patient.AssignedPlan,
				patient.PrimaryTherapistID,
				patient.Status,
				patient.CreatedAt,
				patient.UpdatedAt,
			)
			if err != nil {
				return wrap("create patient profile", err)
			}
		}

		if therapist != nil {
			therapist.UserID = user.ID
			_, err := tx.ExecContext(ctx, `
				INSERT INTO therapist_profiles (
					id, user_id, license_number, specialization, bio, status,
					focus_areas, date_of_birth, gender, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				therapist.ID,
				therapist.UserID,
				therapist.LicenseNumber,
				therapist.Specialization,
				therapist.Bio,
				therapist.Status,
				therapist.FocusAreas,
				therapist.DateOfBirth,
				therapist.Gender,
				therapist.CreatedAt,
				therapist.UpdatedAt,
			)
			if err != nil {
				return wrap("create therapist profile", err)
			}
		}
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, wrap("get user by email", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, phone_number = $3,
			profile_image_url = $4, updated_at = $5
		WHERE id = $6
	`
	return r.exec(ctx, "update user", query,
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.ProfileImageURL,
		user.UpdatedAt,
		user.ID,
	)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	return r.exec(ctx, "update password", query, hash, id)
}

// GetIdentity resolves a user and both optional profiles in one round trip.
func (r *userRepository) GetIdentity(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	query := `
		SELECT u.id AS user_id, u.role, u.is_superuser,
			p.id AS patient_profile_id, t.id AS therapist_profile_id
		FROM users u
		LEFT JOIN patient_profiles p ON p.user_id = u.id
		LEFT JOIN therapist_profiles t ON t.user_id = u.id
		WHERE u.id = $1
	`
	var identity model.Identity
	if err := r.db.GetContext(ctx, &identity, query, id); err != nil {
		return nil, wrap("get identity", err)
	}
	return &identity, nil
}

func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}
