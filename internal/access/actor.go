// Package access decides which rows an authenticated actor may see or change.
package access

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// Actor is the identity performing an operation. The set of implementations
// is closed: Admin, Therapist, Patient and Anonymous.
type Actor interface {
	// UserID is uuid.Nil for unauthenticated requests.
	UserID() uuid.UUID
	actor()
}

type Admin struct {
	User uuid.UUID
}

type Therapist struct {
	User      uuid.UUID
	ProfileID uuid.UUID
}

type Patient struct {
	User      uuid.UUID
	ProfileID uuid.UUID
}

// Anonymous is either an unauthenticated caller or a user that carries no
// admin flag and no profile.
type Anonymous struct {
	User uuid.UUID
}

func (a Admin) UserID() uuid.UUID     { return a.User }
func (t Therapist) UserID() uuid.UUID { return t.User }
func (p Patient) UserID() uuid.UUID   { return p.User }
func (a Anonymous) UserID() uuid.UUID { return a.User }

func (Admin) actor()     {}
func (Therapist) actor() {}
func (Patient) actor()   {}
func (Anonymous) actor() {}

// FromIdentity resolves the actor for a stored identity. Admin wins over any
// attached profile, and a patient profile wins over a therapist profile.
func FromIdentity(id *model.Identity) Actor {
	if id == nil {
		return Anonymous{}
	}
	switch {
	case id.IsSuperuser || id.Role == model.RoleAdmin:
		return Admin{User: id.UserID}
	case id.PatientProfileID != nil:
		return Patient{User: id.UserID, ProfileID: *id.PatientProfileID}
	case id.TherapistProfileID != nil:
		return Therapist{User: id.UserID, ProfileID: *id.TherapistProfileID}
	default:
		return Anonymous{User: id.UserID}
	}
}

// IsAdmin is a shorthand used by admin-only operations.
func IsAdmin(a Actor) bool {
	_, ok := a.(Admin)
	return ok
}

// Authenticated reports whether the actor came with a user id.
func Authenticated(a Actor) bool {
	return a != nil && a.UserID() != uuid.Nil
}

// RoleName is used for logs and metrics labels.
func RoleName(a Actor) string {
	switch a.(type) {
	case Admin:
		return "admin"
	case Therapist:
		return "therapist"
	case Patient:
		return "patient"
	default:
		return "anonymous"
	}
}
