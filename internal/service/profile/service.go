package profile

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/filestore"
)

type Service struct {
	users        repository.UserRepository
	patients     repository.PatientRepository
	therapists   repository.TherapistRepository
	appointments repository.AppointmentRepository
	images       filestore.Store
	now          func() time.Time
}

func NewService(
	users repository.UserRepository,
	patients repository.PatientRepository,
	therapists repository.TherapistRepository,
	appointments repository.AppointmentRepository,
	images filestore.Store,
) *Service {
	return &Service{
		users:        users,
		patients:     patients,
		therapists:   therapists,
		appointments: appointments,
		images:       images,
		now:          time.Now,
	}
}

func (s *Service) Me(ctx context.Context, actor access.Actor) (*model.CurrentUser, error) {
	if !access.Authenticated(actor) {
		return nil, apperrors.Unauthorized(nil)
	}
	user, err := s.users.Get(ctx, actor.UserID())
	if err != nil {
		return nil, service.RepoError(err, "user")
	}
	identity, err := s.users.GetIdentity(ctx, user.ID)
	if err != nil {
		return nil, service.RepoError(err, "user")
	}
	return &model.CurrentUser{
		User:               user,
		DisplayName:        user.DisplayName(),
		PatientProfileID:   identity.PatientProfileID,
		TherapistProfileID: identity.TherapistProfileID,
	}, nil
}

func (s *Service) UpdateMe(ctx context.Context, actor access.Actor, req *model.UpdateMeRequest) (*model.CurrentUser, error) {
	if !access.Authenticated(actor) {
		return nil, apperrors.Unauthorized(nil)
	}
	user, err := s.users.Get(ctx, actor.UserID())
	if err != nil {
		return nil, service.RepoError(err, "user")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, service.RepoError(err, "user")
	}
	return s.Me(ctx, actor)
}

// UploadImage stores a profile picture and records its URL on the user.
func (s *Service) UploadImage(ctx context.Context, actor access.Actor, filename, contentType string, body io.Reader) (*model.CurrentUser, error) {
	if !access.Authenticated(actor) {
		return nil, apperrors.Unauthorized(nil)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.NewValidation("only image uploads are accepted", map[string]string{"image": "must be an image"})
	}
	if s.images == nil {
		return nil, apperrors.Internal(nil)
	}

	user, err := s.users.Get(ctx, actor.UserID())
	if err != nil {
		return nil, service.RepoError(err, "user")
	}
	url, err := s.images.Put(ctx, filestore.ProfileImageKey(user.ID, filename), contentType, body)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	user.ProfileImageURL = &url
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, service.RepoError(err, "user")
	}
	return s.Me(ctx, actor)
}

// GetPatient: admins see anyone, patients themselves, therapists the
// patients they have seen.
func (s *Service) GetPatient(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.PatientProfile, error) {
	p, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "patient")
	}
	ok, err := s.canSeePatient(ctx, actor, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewForbidden("you do not have access to this patient")
	}
	return p, nil
}

func (s *Service) canSeePatient(ctx context.Context, actor access.Actor, p *model.PatientProfile) (bool, error) {
	switch v := actor.(type) {
	case access.Admin:
		return true, nil
	case access.Patient:
		return v.ProfileID == p.ID, nil
	case access.Therapist:
		seen, err := s.appointments.List(ctx, &model.AppointmentFilters{PatientID: &p.ID, TherapistID: &v.ProfileID})
		if err != nil {
			return false, service.RepoError(err, "appointment")
		}
		return len(seen) > 0, nil
	default:
		return false, nil
	}
}

// UpdatePatient: patients edit their own medical details; admins also set
// plan, primary therapist and status (archiving).
func (s *Service) UpdatePatient(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdatePatientRequest) (*model.PatientProfile, error) {
	p, err := s.patients.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "patient")
	}

	admin := access.IsAdmin(actor)
	if self, ok := actor.(access.Patient); !admin && (!ok || self.ProfileID != p.ID) {
		return nil, apperrors.NewForbidden("you cannot change this patient")
	}

	if req.DateOfBirth != nil {
		p.DateOfBirth = *req.DateOfBirth
	}
	if req.MedicalHistory != nil {
		p.MedicalHistory = *req.MedicalHistory
	}
	if req.EmergencyContact != nil {
		p.EmergencyContact = *req.EmergencyContact
	}
	if admin {
		if req.AssignedPlan != nil {
			p.AssignedPlan = *req.AssignedPlan
		}
		if req.PrimaryTherapistID != nil {
			if _, err := s.therapists.Get(ctx, *req.PrimaryTherapistID); err != nil {
				if apperr := service.RepoError(err, "therapist"); apperrors.HasCode(apperr, apperrors.ErrNotFound) {
					return nil, apperrors.NewValidation("therapist not found", map[string]string{"primary_therapist_id": "therapist not found"})
				}
				return nil, apperrors.Internal(err)
			}
			p.PrimaryTherapistID = req.PrimaryTherapistID
		}
		if req.Status != nil {
			p.Status = *req.Status
		}
	}
	p.UpdatedAt = s.now()

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, service.RepoError(err, "patient")
	}
	return p, nil
}

// ListTherapists is the booking directory. Non-admins only see active
// therapists.
func (s *Service) ListTherapists(ctx context.Context, actor access.Actor) ([]*model.TherapistProfile, error) {
	if !access.Authenticated(actor) {
		return nil, apperrors.Unauthorized(nil)
	}
	filters := &model.TherapistFilters{}
	if !access.IsAdmin(actor) {
		filters.Status = model.TherapistStatusActive
	}
	therapists, err := s.therapists.List(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "therapist")
	}
	return therapists, nil
}

func (s *Service) GetTherapist(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.TherapistProfile, error) {
	if !access.Authenticated(actor) {
		return nil, apperrors.Unauthorized(nil)
	}
	t, err := s.therapists.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "therapist")
	}
	self, isSelf := actor.(access.Therapist)
	if t.Status != model.TherapistStatusActive && !access.IsAdmin(actor) && !(isSelf && self.ProfileID == t.ID) {
		return nil, apperrors.NotFound("therapist", repository.ErrNotFound)
	}
	return t, nil
}

// UpdateTherapist: therapists edit their own practice details; admins also
// set license and status.
func (s *Service) UpdateTherapist(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateTherapistRequest) (*model.TherapistProfile, error) {
	t, err := s.therapists.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "therapist")
	}

	admin := access.IsAdmin(actor)
	if self, ok := actor.(access.Therapist); !admin && (!ok || self.ProfileID != t.ID) {
		return nil, apperrors.NewForbidden("you cannot change this therapist")
	}

	if req.Specialization != nil {
		t.Specialization = *req.Specialization
	}
	if req.Bio != nil {
		t.Bio = *req.Bio
	}
	if req.FocusAreas != nil {
		t.FocusAreas = req.FocusAreas
	}
	if req.Gender != nil {
		t.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		t.DateOfBirth = req.DateOfBirth
	}
	if admin {
		if req.LicenseNumber != nil {
			t.LicenseNumber = *req.LicenseNumber
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
	}
	t.UpdatedAt = s.now()

	if err := s.therapists.Update(ctx, t); err != nil {
		if service.Constraint(err) != "" {
			return nil, apperrors.NewValidation("license number already registered", map[string]string{"license_number": "already registered"})
		}
		return nil, service.RepoError(err, "therapist")
	}
	return t, nil
}
