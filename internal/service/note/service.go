package note

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	"github.com/jwalitptl/clinic-api/internal/service/event"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

const resource = "clinical note"

// Service is the clinical note ledger. Only the authoring therapist can read
// or change a note.
type Service struct {
	notes        repository.NoteRepository
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	events       event.Emitter
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewService(notes repository.NoteRepository, patients repository.PatientRepository, appointments repository.AppointmentRepository, events event.Emitter, m *metrics.Metrics) *Service {
	if events == nil {
		events = event.Nop{}
	}
	return &Service{notes: notes, patients: patients, appointments: appointments, events: events, metrics: m, now: time.Now}
}

type noteEvent struct {
	NoteID        uuid.UUID  `json:"note_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	PatientID     uuid.UUID  `json:"patient_id"`
	TherapistID   uuid.UUID  `json:"therapist_id"`
	IsDraft       bool       `json:"is_draft"`
}

// CreateNote files a note under the calling therapist. A therapist_id in the
// request is ignored. The linked appointment must exist but may belong to
// anyone.
func (s *Service) CreateNote(ctx context.Context, actor access.Actor, req *model.CreateNoteRequest) (*model.ClinicalNote, error) {
	therapist, ok := actor.(access.Therapist)
	if !ok {
		return nil, apperrors.NewForbidden("only therapists can write clinical notes")
	}

	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidation("patient not found", map[string]string{"patient_id": "patient not found"})
		}
		return nil, apperrors.Internal(err)
	}
	if err := s.checkAppointment(ctx, req.AppointmentID); err != nil {
		return nil, err
	}

	n := &model.ClinicalNote{
		Base:               model.NewBase(s.now()),
		AppointmentID:      req.AppointmentID,
		PatientID:          req.PatientID,
		TherapistID:        therapist.ProfileID,
		DiagnosisCode:      req.DiagnosisCode,
		SubjectiveAnalysis: req.SubjectiveAnalysis,
		Observations:       req.Observations,
		TreatmentPlan:      req.TreatmentPlan,
		IsDraft:            req.IsDraft,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, translate(err)
	}

	if s.metrics != nil {
		s.metrics.ClinicalNotesCreated.Inc()
	}
	err := s.events.Emit(ctx, model.EventClinicalNoteCreated, noteEvent{
		NoteID:        n.ID,
		AppointmentID: n.AppointmentID,
		PatientID:     n.PatientID,
		TherapistID:   n.TherapistID,
		IsDraft:       n.IsDraft,
	})
	if err != nil {
		log.Warn().Err(err).Str("note_id", n.ID.String()).Msg("failed to record event")
	}
	return n, nil
}

// ListNotes returns the therapist's own notes, newest first. Every other
// actor gets an empty list.
func (s *Service) ListNotes(ctx context.Context, actor access.Actor) ([]*model.ClinicalNote, error) {
	scope := access.NoteScope(actor)
	if scope.Empty() {
		return []*model.ClinicalNote{}, nil
	}
	notes, err := s.notes.ListByTherapist(ctx, scope.ID)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	return notes, nil
}

func (s *Service) GetNote(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.ClinicalNote, error) {
	return s.authored(ctx, actor, id)
}

// UpdateNote edits the clinical content. Patient and therapist are fixed.
func (s *Service) UpdateNote(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateNoteRequest) (*model.ClinicalNote, error) {
	n, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.AppointmentID != nil {
		if err := s.checkAppointment(ctx, req.AppointmentID); err != nil {
			return nil, err
		}
		n.AppointmentID = req.AppointmentID
	}
	if req.DiagnosisCode != nil {
		n.DiagnosisCode = *req.DiagnosisCode
	}
	if req.SubjectiveAnalysis != nil {
		n.SubjectiveAnalysis = *req.SubjectiveAnalysis
	}
	if req.Observations != nil {
		n.Observations = *req.Observations
	}
	if req.TreatmentPlan != nil {
		n.TreatmentPlan = *req.TreatmentPlan
	}
	if req.IsDraft != nil {
		n.IsDraft = *req.IsDraft
	}
	n.UpdatedAt = s.now()

	if err := s.notes.Update(ctx, n); err != nil {
		return nil, translate(err)
	}
	return n, nil
}

func (s *Service) authored(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.ClinicalNote, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	scope := access.NoteScope(actor)
	if scope.Empty() || !scope.Allows(n) {
		return nil, apperrors.NewForbidden("only the authoring therapist can access this note")
	}
	return n, nil
}

func (s *Service) checkAppointment(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.appointments.Get(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidation("appointment not found", map[string]string{"appointment_id": "appointment not found"})
		}
		return apperrors.Internal(err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("a note already exists for this appointment", err)
	}
	return service.RepoError(err, resource)
}
