package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	"github.com/jwalitptl/clinic-api/internal/service/event"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

var tracer = otel.Tracer("github.com/jwalitptl/clinic-api/internal/service/scheduling")

// Policy toggles the booking rules. The zero value is not the default; use
// DefaultPolicy.
type Policy struct {
	AllowOverlap        bool
	RequireAvailability bool
	StrictTransitions   bool
}

func DefaultPolicy() Policy {
	return Policy{AllowOverlap: true}
}

// ServiceLookup resolves catalog entries, typically through the catalog cache.
type ServiceLookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*model.Service, error)
}

type Deps struct {
	Appointments repository.AppointmentRepository
	Patients     repository.PatientRepository
	Therapists   repository.TherapistRepository
	Locations    repository.LocationRepository
	Availability repository.AvailabilityRepository
	Catalog      ServiceLookup
	Events       event.Emitter
	Metrics      *metrics.Metrics
}

type Service struct {
	Deps
	policy Policy
	now    func() time.Time
}

func NewService(deps Deps, policy Policy) *Service {
	if deps.Events == nil {
		deps.Events = event.Nop{}
	}
	return &Service{Deps: deps, policy: policy, now: time.Now}
}

// DeriveEndTime is start plus the service duration, or nil when there is no
// service or no start.
func DeriveEndTime(start time.Time, svc *model.Service) *time.Time {
	if svc == nil || start.IsZero() {
		return nil
	}
	end := start.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	return &end
}

var transitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
}

// CanTransition reports whether the strict lifecycle allows from -> to.
// Setting the current status again is always allowed.
func CanTransition(from, to model.AppointmentStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func invalid(field, msg string) error {
	return apperrors.NewValidation(msg, map[string]string{field: msg})
}

type appointmentEvent struct {
	AppointmentID uuid.UUID               `json:"appointment_id"`
	PatientID     uuid.UUID               `json:"patient_id"`
	TherapistID   uuid.UUID               `json:"therapist_id"`
	ServiceID     *uuid.UUID              `json:"service_id,omitempty"`
	StartTime     time.Time               `json:"start_time"`
	EndTime       *time.Time              `json:"end_time,omitempty"`
	Status        model.AppointmentStatus `json:"status"`
}

func (s *Service) emit(ctx context.Context, eventType string, apt *model.Appointment) {
	err := s.Events.Emit(ctx, eventType, appointmentEvent{
		AppointmentID: apt.ID,
		PatientID:     apt.PatientID,
		TherapistID:   apt.TherapistID,
		ServiceID:     apt.ServiceID,
		StartTime:     apt.StartTime,
		EndTime:       apt.EndTime,
		Status:        apt.Status,
	})
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Str("appointment_id", apt.ID.String()).Msg("failed to record event")
	}
}

// CreateAppointment books an appointment for the calling patient.
func (s *Service) CreateAppointment(ctx context.Context, actor access.Actor, req *model.CreateAppointmentRequest) (apt *model.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "scheduling.CreateAppointment")
	defer span.End()
	defer func() {
		outcome := "created"
		if err != nil {
			outcome = "rejected"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if s.Metrics != nil {
			s.Metrics.AppointmentsBooked.WithLabelValues(outcome).Inc()
		}
	}()

	patient, ok := actor.(access.Patient)
	if !ok {
		return nil, apperrors.NewForbidden("only patients can book appointments")
	}
	span.SetAttributes(
		attribute.String("patient_id", patient.ProfileID.String()),
		attribute.String("therapist_id", req.TherapistID.String()),
	)

	if req.StartTime.IsZero() {
		return nil, invalid("start_time", "start_time is required")
	}
	if err := s.checkTherapist(ctx, req.TherapistID); err != nil {
		return nil, err
	}
	svc, err := s.activeService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, req.LocationID); err != nil {
		return nil, err
	}

	now := s.now()
	apt = &model.Appointment{
		Base:        model.NewBase(now),
		PatientID:   patient.ProfileID,
		TherapistID: req.TherapistID,
		ServiceID:   req.ServiceID,
		LocationID:  req.LocationID,
		StartTime:   req.StartTime,
		EndTime:     DeriveEndTime(req.StartTime, svc),
		Status:      model.AppointmentStatusPending,
		Notes:       req.Notes,
	}

	if s.policy.RequireAvailability {
		if err := s.checkAvailability(ctx, apt); err != nil {
			return nil, err
		}
	}
	if !s.policy.AllowOverlap {
		if err := s.checkOverlap(ctx, apt, nil); err != nil {
			return nil, err
		}
	}

	if err := s.Appointments.Create(ctx, apt); err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	span.SetAttributes(attribute.String("appointment_id", apt.ID.String()))

	s.emit(ctx, model.EventAppointmentCreated, apt)
	return apt, nil
}

// UpdateAppointment applies a partial update. Only admins may change the
// patient or the status; for everyone else those fields are ignored. The end
// time is derived again whenever a service resolves. Without one the stored
// end time is kept unless the start moves.
func (s *Service) UpdateAppointment(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.UpdateAppointment")
	defer span.End()
	span.SetAttributes(attribute.String("appointment_id", id.String()))

	apt, err := s.update(ctx, actor, id, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.AppointmentsUpdated.WithLabelValues(string(apt.Status)).Inc()
	}
	s.emit(ctx, model.EventAppointmentUpdated, apt)
	return apt, nil
}

func (s *Service) update(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	current, err := s.Appointments.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	if !access.CanAccess(actor, current) {
		return nil, apperrors.NewForbidden("you do not have access to this appointment")
	}

	updated := *current
	admin := access.IsAdmin(actor)

	if admin && req.PatientID != nil && *req.PatientID != current.PatientID {
		if _, err := s.Patients.Get(ctx, *req.PatientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("patient_id", "patient not found")
			}
			return nil, apperrors.Internal(err)
		}
		updated.PatientID = *req.PatientID
	}

	if req.TherapistID != nil && *req.TherapistID != current.TherapistID {
		if err := s.checkTherapist(ctx, *req.TherapistID); err != nil {
			return nil, err
		}
		updated.TherapistID = *req.TherapistID
	}

	var svc *model.Service
	switch {
	case req.ClearService:
		updated.ServiceID = nil
	case req.ServiceID != nil && (current.ServiceID == nil || *req.ServiceID != *current.ServiceID):
		if svc, err = s.activeService(ctx, req.ServiceID); err != nil {
			return nil, err
		}
		updated.ServiceID = req.ServiceID
	case current.ServiceID != nil:
		if svc, err = s.existingService(ctx, *current.ServiceID); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearLocation:
		updated.LocationID = nil
	case req.LocationID != nil:
		if err := s.checkLocation(ctx, req.LocationID); err != nil {
			return nil, err
		}
		updated.LocationID = req.LocationID
	}

	if req.StartTime != nil {
		if req.StartTime.IsZero() {
			return nil, invalid("start_time", "start_time is required")
		}
		updated.StartTime = *req.StartTime
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	if admin && req.Status != nil {
		if !req.Status.Valid() {
			return nil, invalid("status", fmt.Sprintf("invalid status %q", *req.Status))
		}
		if s.policy.StrictTransitions && !CanTransition(current.Status, *req.Status) {
			return nil, invalid("status", fmt.Sprintf("cannot change status from %s to %s", current.Status, *req.Status))
		}
		updated.Status = *req.Status
	}

	switch {
	case svc != nil:
		updated.EndTime = DeriveEndTime(updated.StartTime, svc)
	case !updated.StartTime.Equal(current.StartTime):
		updated.EndTime = nil
	}

	if !s.policy.AllowOverlap && updated.Status != model.AppointmentStatusCancelled {
		if err := s.checkOverlap(ctx, &updated, &updated.ID); err != nil {
			return nil, err
		}
	}

	updated.UpdatedAt = s.now()
	if err := s.Appointments.Update(ctx, &updated); err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	return &updated, nil
}

// GetAppointment returns one appointment if the actor may see it.
func (s *Service) GetAppointment(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.Appointments.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	if !access.CanAccess(actor, apt) {
		return nil, apperrors.NewForbidden("you do not have access to this appointment")
	}
	return apt, nil
}

// ListAppointments applies the actor's scope on top of the caller's filters.
// Ownership filters from the caller are honoured only for admins.
func (s *Service) ListAppointments(ctx context.Context, actor access.Actor, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	scope := access.AppointmentScope(actor)
	switch scope.Kind {
	case access.ScopeNone:
		return []*model.Appointment{}, nil
	case access.ScopePatient:
		filters.PatientID = &scope.ID
		filters.TherapistID = nil
	case access.ScopeTherapist:
		filters.TherapistID = &scope.ID
		filters.PatientID = nil
	}

	appointments, err := s.Appointments.List(ctx, &filters)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	return appointments, nil
}

// ListPatients returns every patient for admins and, for a therapist, the
// distinct patients with at least one appointment with them.
func (s *Service) ListPatients(ctx context.Context, actor access.Actor) ([]*model.PatientProfile, error) {
	scope := access.PatientListScope(actor)
	filters := &model.PatientFilters{}
	switch scope.Kind {
	case access.ScopeNone:
		return []*model.PatientProfile{}, nil
	case access.ScopeTherapist:
		filters.TherapistID = &scope.ID
	}

	patients, err := s.Patients.List(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "patient")
	}
	return patients, nil
}

func (s *Service) checkTherapist(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Therapists.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("therapist_id", "therapist not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) checkLocation(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.Locations.Get(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("location_id", "location not found")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) activeService(ctx context.Context, id *uuid.UUID) (*model.Service, error) {
	if id == nil {
		return nil, nil
	}
	svc, err := s.Catalog.Lookup(ctx, *id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			return nil, invalid("service_id", "service not found")
		}
		return nil, err
	}
	if !svc.Active {
		return nil, invalid("service_id", "service inactive")
	}
	return svc, nil
}

// existingService resolves the unchanged service of an appointment. A
// service deleted since leaves no duration to derive from.
func (s *Service) existingService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.Catalog.Lookup(ctx, id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return svc, nil
}

// window is the period an appointment occupies. Without an end time it is
// the start instant.
func window(apt *model.Appointment) (time.Time, time.Time) {
	if apt.EndTime != nil && apt.EndTime.After(apt.StartTime) {
		return apt.StartTime, *apt.EndTime
	}
	return apt.StartTime, apt.StartTime.Add(time.Microsecond)
}

func (s *Service) checkOverlap(ctx context.Context, apt *model.Appointment, exclude *uuid.UUID) error {
	start, end := window(apt)
	conflicts, err := s.Appointments.FindConflicts(ctx, &model.ConflictQuery{
		TherapistID: apt.TherapistID,
		PatientID:   apt.PatientID,
		Start:       start,
		End:         end,
		ExcludeID:   exclude,
	})
	if err != nil {
		return service.RepoError(err, "appointment")
	}
	if len(conflicts) > 0 {
		if s.Metrics != nil {
			s.Metrics.BookingConflicts.Inc()
		}
		return apperrors.NewConflict("appointment overlaps an existing booking", nil)
	}
	return nil
}

func (s *Service) checkAvailability(ctx context.Context, apt *model.Appointment) error {
	windows, err := s.Availability.ListForDate(ctx, apt.TherapistID, model.DateOf(apt.StartTime))
	if err != nil {
		return service.RepoError(err, "availability")
	}
	end := apt.StartTime
	if apt.EndTime != nil {
		end = *apt.EndTime
	}
	for _, w := range windows {
		if w.Covers(apt.StartTime, end) {
			return nil
		}
	}
	return invalid("start_time", "therapist not available")
}
