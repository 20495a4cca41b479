package model

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RolePatient   Role = "PATIENT"
	RoleTherapist Role = "THERAPIST"
)

// User represents a system user
type User struct {
	Base
	Email           string  `json:"email" db:"email"`
	Username        string  `json:"username" db:"username"`
	PasswordHash    string  `json:"-" db:"password_hash"`
	FirstName       string  `json:"first_name" db:"first_name"`
	LastName        string  `json:"last_name" db:"last_name"`
	Role            Role    `json:"role" db:"role"`
	IsSuperuser     bool    `json:"is_superuser" db:"is_superuser"`
	PhoneNumber     *string `json:"phone_number,omitempty" db:"phone_number"`
	ProfileImageURL *string `json:"profile_image,omitempty" db:"profile_image_url"`
}

// DisplayName is the name shown in the UI.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Identity is everything the access layer needs about an authenticated user.
type Identity struct {
	UserID             uuid.UUID  `db:"user_id"`
	Role               Role       `db:"role"`
	IsSuperuser        bool       `db:"is_superuser"`
	PatientProfileID   *uuid.UUID `db:"patient_profile_id"`
	TherapistProfileID *uuid.UUID `db:"therapist_profile_id"`
}

// CurrentUser is the payload of users/me.
type CurrentUser struct {
	*User
	DisplayName        string     `json:"display_name"`
	PatientProfileID   *uuid.UUID `json:"patient_profile_id,omitempty"`
	TherapistProfileID *uuid.UUID `json:"therapist_profile_id,omitempty"`
}

// RegisterRequest creates a user plus the profile matching its role.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Phone     string `json:"phone_number" binding:"max=15"`
	Role      Role   `json:"role" binding:"required,oneof=PATIENT THERAPIST"`

	// Patient
	DateOfBirth      *Date  `json:"date_of_birth"`
	MedicalHistory   string `json:"medical_history"`
	EmergencyContact string `json:"emergency_contact" binding:"max=100"`

	// Therapist
	LicenseNumber  string `json:"license_number" binding:"max=50"`
	Specialization string `json:"specialization" binding:"max=100"`
	Bio            string `json:"bio"`
}

type UpdateMeRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=150"`
	LastName    *string `json:"last_name" binding:"omitempty,max=150"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
