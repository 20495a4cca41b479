package availability

import (
	"context"
	"errors"
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

var tracer = otel.Tracer("github.com/jwalitptl/clinic-api/internal/service/availability")

const resource = "availability"

// ErrDuplicateWindow is returned when the therapist already has a window
// starting at the same time on the same date.
var ErrDuplicateWindow = apperrors.NewConflict("availability already exists for this date and start time", nil)

type Service struct {
	repo         repository.AvailabilityRepository
	events       event.Emitter
	metrics      *metrics.Metrics
	allowOverlap bool
	now          func() time.Time
}

// NewService builds the registry. With allowOverlap false, windows must be
// well formed and may not intersect on the same date.
func NewService(repo repository.AvailabilityRepository, events event.Emitter, m *metrics.Metrics, allowOverlap bool) *Service {
	if events == nil {
		events = event.Nop{}
	}
	return &Service{repo: repo, events: events, metrics: m, allowOverlap: allowOverlap, now: time.Now}
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.AvailabilityCreated.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) CreateAvailability(ctx context.Context, actor access.Actor, req *model.AvailabilityRequest) (*model.Availability, error) {
	ctx, span := tracer.Start(ctx, "availability.CreateAvailability")
	defer span.End()

	a, err := s.create(ctx, actor, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if apperrors.HasCode(err, apperrors.ErrConflict) {
			s.observe("duplicate")
		} else {
			s.observe("rejected")
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("availability_id", a.ID.String()))
	s.observe("created")

	if err := s.events.Emit(ctx, model.EventAvailabilityCreated, a); err != nil {
		log.Warn().Err(err).Str("availability_id", a.ID.String()).Msg("failed to record event")
	}
	return a, nil
}

func (s *Service) create(ctx context.Context, actor access.Actor, req *model.AvailabilityRequest) (*model.Availability, error) {
	therapist, ok := actor.(access.Therapist)
	if !ok {
		return nil, apperrors.NewForbidden("only therapists can publish availability")
	}
	if err := required(req); err != nil {
		return nil, err
	}

	a := &model.Availability{
		Base:        model.NewBase(s.now()),
		TherapistID: therapist.ProfileID,
		Date:        *req.Date,
		StartTime:   *req.StartTime,
		EndTime:     *req.EndTime,
	}
	if err := s.checkOverlap(ctx, a); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateWindow
		}
		return nil, service.RepoError(err, resource)
	}
	return a, nil
}

// ListAvailability returns windows ordered by date and start time. Patients
// and anonymous callers must name a therapist and only see today onwards.
func (s *Service) ListAvailability(ctx context.Context, actor access.Actor, therapistID *uuid.UUID) ([]*model.Availability, error) {
	scope := access.AvailabilityScope(actor, therapistID, s.now())

	filters := &model.AvailabilityFilters{}
	switch scope.Kind {
	case access.ScopeNone:
		return []*model.Availability{}, nil
	case access.ScopeTherapist:
		filters.TherapistID = &scope.ID
		filters.FromDate = scope.FromDate
	case access.ScopeAll:
		filters.TherapistID = therapistID
	}

	windows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	return windows, nil
}

// UpdateAvailability replaces date and times of a window. The therapist
// never changes.
func (s *Service) UpdateAvailability(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.AvailabilityRequest) (*model.Availability, error) {
	a, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := required(req); err != nil {
		return nil, err
	}

	a.Date = *req.Date
	a.StartTime = *req.StartTime
	a.EndTime = *req.EndTime
	a.UpdatedAt = s.now()
	if err := s.checkOverlap(ctx, a); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateWindow
		}
		return nil, service.RepoError(err, resource)
	}
	return a, nil
}

func (s *Service) DeleteAvailability(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return service.RepoError(err, resource)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Availability, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	if !access.CanAccess(actor, a) {
		return nil, apperrors.NewForbidden("you do not have access to this availability")
	}
	return a, nil
}

func (s *Service) checkOverlap(ctx context.Context, a *model.Availability) error {
	if s.allowOverlap {
		return nil
	}
	if !a.StartTime.Before(a.EndTime) {
		return apperrors.NewValidation("end_time must be after start_time", map[string]string{
			"end_time": "must be after start_time",
		})
	}

	sameDay, err := s.repo.ListForDate(ctx, a.TherapistID, a.Date)
	if err != nil {
		return service.RepoError(err, resource)
	}
	for _, other := range sameDay {
		if other.ID != a.ID && other.Overlaps(a) {
			return apperrors.NewConflict("availability overlaps an existing window", nil)
		}
	}
	return nil
}

func required(req *model.AvailabilityRequest) error {
	fields := map[string]string{}
	if req.Date == nil {
		fields["date"] = "is required"
	}
	if req.StartTime == nil {
		fields["start_time"] = "is required"
	}
	if req.EndTime == nil {
		fields["end_time"] = "is required"
	}
	if len(fields) > 0 {
		return apperrors.NewValidation("invalid availability", fields)
	}
	return nil
}
