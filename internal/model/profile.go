package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type TherapistStatus string

const (
	TherapistStatusActive   TherapistStatus = "Active"
	TherapistStatusInactive TherapistStatus = "Inactive"
	TherapistStatusOnLeave  TherapistStatus = "OnLeave"
)

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "Active"
	PatientStatusArchived PatientStatus = "Archived"
)

type TherapistProfile struct {
	Base
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	LicenseNumber  string          `db:"license_number" json:"license_number"`
	Specialization string          `db:"specialization" json:"specialization"`
	Bio            string          `db:"bio" json:"bio"`
	Status         TherapistStatus `db:"status" json:"status"`
	FocusAreas     pq.StringArray  `db:"focus_areas" json:"focus_areas"`
	DateOfBirth    *Date           `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender         string          `db:"gender" json:"gender"`

	// Joined from users on reads.
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

type PatientProfile struct {
	Base
	UserID             uuid.UUID     `db:"user_id" json:"user_id"`
	DateOfBirth        Date          `db:"date_of_birth" json:"date_of_birth"`
	MedicalHistory     string        `db:"medical_history" json:"medical_history"`
	EmergencyContact   string        `db:"emergency_contact" json:"emergency_contact"`
	AssignedPlan       string        `db:"assigned_plan" json:"assigned_plan"`
	PrimaryTherapistID *uuid.UUID    `db:"primary_therapist_id" json:"primary_therapist_id,omitempty"`
	Status             PatientStatus `db:"status" json:"status"`

	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

// PatientFilters selects patient profiles. A non-nil TherapistID limits the
// result to patients with at least one appointment with that therapist.
type PatientFilters struct {
	TherapistID *uuid.UUID
	Status      PatientStatus
}

type TherapistFilters struct {
	Status TherapistStatus
}

type UpdatePatientRequest struct {
	DateOfBirth        *Date          `json:"date_of_birth"`
	MedicalHistory     *string        `json:"medical_history"`
	EmergencyContact   *string        `json:"emergency_contact" binding:"omitempty,max=100"`
	AssignedPlan       *string        `json:"assigned_plan" binding:"omitempty,max=100"`
	PrimaryTherapistID *uuid.UUID     `json:"primary_therapist_id"`
	Status             *PatientStatus `json:"status" binding:"omitempty,oneof=Active Archived"`
}

type UpdateTherapistRequest struct {
	Specialization *string          `json:"specialization" binding:"omitempty,max=100"`
	Bio            *string          `json:"bio"`
	FocusAreas     []string         `json:"focus_areas"`
	Gender         *string          `json:"gender" binding:"omitempty,max=20"`
	DateOfBirth    *Date            `json:"date_of_birth"`
	LicenseNumber  *string          `json:"license_number" binding:"omitempty,max=50"`
	Status         *TherapistStatus `json:"status" binding:"omitempty,oneof=Active Inactive OnLeave"`
}
