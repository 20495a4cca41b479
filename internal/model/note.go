package model

import (
	"github.com/google/uuid"
)

type ClinicalNote struct {
	Base
	AppointmentID      *uuid.UUID `db:"appointment_id" json:"appointment_id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	TherapistID        uuid.UUID  `db:"therapist_id" json:"therapist_id"`
	DiagnosisCode      string     `db:"diagnosis_code" json:"diagnosis_code"`
	SubjectiveAnalysis string     `db:"subjective_analysis" json:"subjective_analysis"`
	Observations       string     `db:"observations" json:"observations"`
	TreatmentPlan      string     `db:"treatment_plan" json:"treatment_plan"`
	IsDraft            bool       `db:"is_draft" json:"is_draft"`
}

// CreateNoteRequest accepts a therapist_id for compatibility; it is ignored.
type CreateNoteRequest struct {
	AppointmentID      *uuid.UUID `json:"appointment_id"`
	PatientID          uuid.UUID  `json:"patient_id" binding:"required"`
	TherapistID        *uuid.UUID `json:"therapist_id"`
	DiagnosisCode      string     `json:"diagnosis_code" binding:"max=20"`
	SubjectiveAnalysis string     `json:"subjective_analysis"`
	Observations       string     `json:"observations"`
	TreatmentPlan      string     `json:"treatment_plan"`
	IsDraft            bool       `json:"is_draft"`
}

type UpdateNoteRequest struct {
	AppointmentID      *uuid.UUID `json:"appointment_id"`
	DiagnosisCode      *string    `json:"diagnosis_code" binding:"omitempty,max=20"`
	SubjectiveAnalysis *string    `json:"subjective_analysis"`
	Observations       *string    `json:"observations"`
	TreatmentPlan      *string    `json:"treatment_plan"`
	IsDraft            *bool      `json:"is_draft"`
}

func (n *ClinicalNote) OwnerPatient() uuid.UUID   { return n.PatientID }
func (n *ClinicalNote) OwnerTherapist() uuid.UUID { return n.TherapistID }
