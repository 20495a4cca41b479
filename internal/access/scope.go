package access

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopePatient
	ScopeTherapist
	ScopeActive
)

// Scope is a predicate over rows. ID carries the owning profile for
// ScopePatient and ScopeTherapist; FromDate is set when only current and
// future rows qualify.
type Scope struct {
	Kind     ScopeKind
	ID       uuid.UUID
	FromDate *model.Date
}

func (s Scope) Empty() bool {
	return s.Kind == ScopeNone
}

// Owned is a row that belongs to a patient and a therapist.
type Owned interface {
	OwnerPatient() uuid.UUID
	OwnerTherapist() uuid.UUID
}

// Allows evaluates the scope against one row.
func (s Scope) Allows(row Owned) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopePatient:
		return row.OwnerPatient() == s.ID
	case ScopeTherapist:
		return row.OwnerTherapist() == s.ID
	default:
		return false
	}
}

// AppointmentScope: admins see everything, profiles see their own rows.
func AppointmentScope(a Actor) Scope {
	switch v := a.(type) {
	case Admin:
		return Scope{Kind: ScopeAll}
	case Therapist:
		return Scope{Kind: ScopeTherapist, ID: v.ProfileID}
	case Patient:
		return Scope{Kind: ScopePatient, ID: v.ProfileID}
	default:
		return Scope{Kind: ScopeNone}
	}
}

// PatientListScope: a therapist sees the distinct patients it has at least
// one appointment with.
func PatientListScope(a Actor) Scope {
	switch v := a.(type) {
	case Admin:
		return Scope{Kind: ScopeAll}
	case Therapist:
		return Scope{Kind: ScopeTherapist, ID: v.ProfileID}
	default:
		return Scope{Kind: ScopeNone}
	}
}

// NoteScope: only the authoring therapist. Admins have no note access.
func NoteScope(a Actor) Scope {
	if v, ok := a.(Therapist); ok {
		return Scope{Kind: ScopeTherapist, ID: v.ProfileID}
	}
	return Scope{Kind: ScopeNone}
}

// ServiceScope: inactive services are admin-only.
func ServiceScope(a Actor) Scope {
	if IsAdmin(a) {
		return Scope{Kind: ScopeAll}
	}
	return Scope{Kind: ScopeActive}
}

// AvailabilityScope resolves listAvailability. therapistID is the optional
// query filter; today anchors the "no past windows" rule.
func AvailabilityScope(a Actor, therapistID *uuid.UUID, today time.Time) Scope {
	switch v := a.(type) {
	case Therapist:
		return Scope{Kind: ScopeTherapist, ID: v.ProfileID}
	case Admin:
		return Scope{Kind: ScopeAll}
	}
	if therapistID == nil {
		return Scope{Kind: ScopeNone}
	}
	from := model.DateOf(today)
	return Scope{Kind: ScopeTherapist, ID: *therapistID, FromDate: &from}
}

// CanAccess is the object-level check for a single row.
func CanAccess(a Actor, row Owned) bool {
	switch v := a.(type) {
	case Admin:
		return true
	case Patient:
		return row.OwnerPatient() == v.ProfileID
	case Therapist:
		return row.OwnerTherapist() == v.ProfileID
	default:
		return false
	}
}
