package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/repository"
)

// Repositories bundles every store the API and worker need.
type Repositories struct {
	Users        repository.UserRepository
	Patients     repository.PatientRepository
	Therapists   repository.TherapistRepository
	Services     repository.ServiceRepository
	Locations    repository.LocationRepository
	Availability repository.AvailabilityRepository
	Appointments repository.AppointmentRepository
	Notes        repository.NoteRepository
	Hours        repository.OperatingHourRepository
	Messages     repository.MessageRepository
	Dashboard    repository.DashboardRepository
	Outbox       repository.OutboxRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	base := NewBaseRepository(db)
	return &Repositories{
		Users:        NewUserRepository(base),
		Patients:     NewPatientRepository(base),
		Therapists:   NewTherapistRepository(base),
		Services:     NewServiceRepository(base),
		Locations:    NewLocationRepository(base),
		Availability: NewAvailabilityRepository(base),
		Appointments: NewAppointmentRepository(base),
		Notes:        NewNoteRepository(base),
		Hours:        NewOperatingHourRepository(base),
		Messages:     NewMessageRepository(base),
		Dashboard:    NewDashboardRepository(base),
		Outbox:       NewOutboxRepository(base),
	}
}
