package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidReference is returned when a write points at a row that does
	// not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// DuplicateError names the unique index a write violated. It matches
// ErrDuplicate under errors.Is.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return "duplicate record: " + e.Constraint
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
		GetIdentity(ctx context.Context, id uuid.UUID) (*model.Identity, error)
		Exists(ctx context.Context, id uuid.UUID) (bool, error)
		// Register inserts a user and its role profile atomically.
		Register(ctx context.Context, user *model.User, patient *model.PatientProfile, therapist *model.TherapistProfile) error
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.PatientProfile, error)
		Update(ctx context.Context, profile *model.PatientProfile) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.PatientProfile, error)
		Count(ctx context.Context) (int, error)
	}

	TherapistRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.TherapistProfile, error)
		Update(ctx context.Context, profile *model.TherapistProfile) error
		List(ctx context.Context, filters *model.TherapistFilters) ([]*model.TherapistProfile, error)
		Count(ctx context.Context) (int, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, svc *model.Service) error
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, svc *model.Service) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ServiceFilters) ([]*model.Service, error)
		IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
	}

	LocationRepository interface {
		Create(ctx context.Context, loc *model.Location) error
		Get(ctx context.Context, id uuid.UUID) (*model.Location, error)
		Update(ctx context.Context, loc *model.Location) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, activeOnly bool) ([]*model.Location, error)
	}

	AvailabilityRepository interface {
		Create(ctx context.Context, a *model.Availability) error
		Get(ctx context.Context, id uuid.UUID) (*model.Availability, error)
		Update(ctx context.Context, a *model.Availability) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AvailabilityFilters) ([]*model.Availability, error)
		ListForDate(ctx context.Context, therapistID uuid.UUID, date model.Date) ([]*model.Availability, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		FindConflicts(ctx context.Context, q *model.ConflictQuery) ([]*model.Appointment, error)
	}

	NoteRepository interface {
		Create(ctx context.Context, note *model.ClinicalNote) error
		Get(ctx context.Context, id uuid.UUID) (*model.ClinicalNote, error)
		Update(ctx context.Context, note *model.ClinicalNote) error
		ListByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*model.ClinicalNote, error)
	}

	OperatingHourRepository interface {
		Create(ctx context.Context, h *model.OperatingHour) error
		Get(ctx context.Context, id uuid.UUID) (*model.OperatingHour, error)
		Update(ctx context.Context, h *model.OperatingHour) error
		List(ctx context.Context) ([]*model.OperatingHour, error)
	}

	MessageRepository interface {
		Create(ctx context.Context, msg *model.Message) error
		Thread(ctx context.Context, userA, userB uuid.UUID) ([]*model.Message, error)
		MarkRead(ctx context.Context, receiver, sender uuid.UUID) (int64, error)
	}

	DashboardRepository interface {
		CountByDay(ctx context.Context, since time.Time) ([]model.DailyCount, error)
		CountByService(ctx context.Context) ([]model.ServiceCount, error)
		CountByStatus(ctx context.Context) ([]model.StatusCount, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ClaimPendingEvents returns up to limit due events and hides them from
		// other callers for lease, so concurrent relays never share a batch.
		// Unacknowledged events become due again when the lease runs out.
		ClaimPendingEvents(ctx context.Context, limit int, lease time.Duration) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
