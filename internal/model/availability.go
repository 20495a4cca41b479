package model

import (
	"time"

	"github.com/google/uuid"
)

// Availability is a window a therapist declares open on one date.
type Availability struct {
	Base
	TherapistID uuid.UUID `db:"therapist_id" json:"therapist_id"`
	Date        Date      `db:"date" json:"date"`
	StartTime   TimeOfDay `db:"start_time" json:"start_time"`
	EndTime     TimeOfDay `db:"end_time" json:"end_time"`
}

// Covers reports whether [start, end) falls inside the window.
func (a *Availability) Covers(start, end time.Time) bool {
	loc := start.Location()
	from := a.Date.At(a.StartTime, loc)
	to := a.Date.At(a.EndTime, loc)
	return !start.Before(from) && !end.After(to)
}

// Overlaps reports whether two windows on the same date intersect.
func (a *Availability) Overlaps(other *Availability) bool {
	if !a.Date.Equal(other.Date.Time) {
		return false
	}
	return a.StartTime.Before(other.EndTime) && other.StartTime.Before(a.EndTime)
}

type AvailabilityRequest struct {
	Date      *Date      `json:"date" binding:"required"`
	StartTime *TimeOfDay `json:"start_time" binding:"required"`
	EndTime   *TimeOfDay `json:"end_time" binding:"required"`
}

// AvailabilityFilters are applied after scope resolution. Ordered results are
// always by (date, start_time).
type AvailabilityFilters struct {
	TherapistID *uuid.UUID
	FromDate    *Date
}

// Availability has no patient; only the therapist owns it.
func (a *Availability) OwnerPatient() uuid.UUID   { return uuid.Nil }
func (a *Availability) OwnerTherapist() uuid.UUID { return a.TherapistID }
