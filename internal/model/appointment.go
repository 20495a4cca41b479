package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	Base
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id"`
	TherapistID uuid.UUID         `db:"therapist_id" json:"therapist_id"`
	ServiceID   *uuid.UUID        `db:"service_id" json:"service_id"`
	LocationID  *uuid.UUID        `db:"location_id" json:"location_id"`
	StartTime   time.Time         `db:"start_time" json:"start_time"`
	EndTime     *time.Time        `db:"end_time" json:"end_time"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Notes       string            `db:"notes" json:"notes"`
}

// Overlaps reports whether the appointment intersects [start, end). An
// appointment without an end time occupies only its start instant.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	aEnd := a.StartTime
	if a.EndTime != nil {
		aEnd = *a.EndTime
	}
	if aEnd.Equal(a.StartTime) {
		return !a.StartTime.Before(start) && a.StartTime.Before(end)
	}
	return a.StartTime.Before(end) && start.Before(aEnd)
}

// CreateAppointmentRequest carries a booking. PatientID is accepted for
// compatibility and always replaced by the caller's own profile.
type CreateAppointmentRequest struct {
	PatientID   *uuid.UUID `json:"patient_id"`
	TherapistID uuid.UUID  `json:"therapist_id" binding:"required"`
	ServiceID   *uuid.UUID `json:"service_id"`
	LocationID  *uuid.UUID `json:"location_id"`
	StartTime   time.Time  `json:"start_time" binding:"required"`
	Notes       string     `json:"notes" binding:"max=2000"`
}

// UpdateAppointmentRequest is a partial update. ClearService/ClearLocation
// null the references explicitly.
type UpdateAppointmentRequest struct {
	PatientID     *uuid.UUID         `json:"patient_id"`
	TherapistID   *uuid.UUID         `json:"therapist_id"`
	ServiceID     *uuid.UUID         `json:"service_id"`
	ClearService  bool               `json:"clear_service"`
	LocationID    *uuid.UUID         `json:"location_id"`
	ClearLocation bool               `json:"clear_location"`
	StartTime     *time.Time         `json:"start_time"`
	EndTime       *time.Time         `json:"end_time"`
	Status        *AppointmentStatus `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Notes         *string            `json:"notes" binding:"omitempty,max=2000"`
}

type AppointmentFilters struct {
	PatientID   *uuid.UUID
	TherapistID *uuid.UUID
	Status      AppointmentStatus
	StartDate   time.Time
	EndDate     time.Time
}

// ConflictQuery finds live appointments intersecting a period for either party.
type ConflictQuery struct {
	TherapistID uuid.UUID
	PatientID   uuid.UUID
	Start       time.Time
	End         time.Time
	ExcludeID   *uuid.UUID
}

func (a *Appointment) OwnerPatient() uuid.UUID   { return a.PatientID }
func (a *Appointment) OwnerTherapist() uuid.UUID { return a.TherapistID }
