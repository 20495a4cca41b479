package hours

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

const resource = "operating hour"

// Service manages the clinic-wide weekly opening hours, one row per weekday.
type Service struct {
	repo repository.OperatingHourRepository
	now  func() time.Time
}

func NewService(repo repository.OperatingHourRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) ListHours(ctx context.Context) ([]*model.OperatingHour, error) {
	hours, err := s.repo.List(ctx)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	return hours, nil
}

func (s *Service) CreateHour(ctx context.Context, actor access.Actor, req *model.CreateOperatingHourRequest) (*model.OperatingHour, error) {
	if !access.IsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins can manage operating hours")
	}
	if req.Weekday == nil || *req.Weekday < 0 || *req.Weekday > 6 {
		return nil, apperrors.NewValidation("invalid operating hour", map[string]string{"weekday": "must be between 0 and 6"})
	}

	h := &model.OperatingHour{
		Base:      model.NewBase(s.now()),
		Weekday:   *req.Weekday,
		IsOpen:    req.IsOpen,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := validate(h); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, h); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("operating hours already exist for this weekday", err)
		}
		return nil, service.RepoError(err, resource)
	}
	return h, nil
}

func (s *Service) UpdateHour(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateOperatingHourRequest) (*model.OperatingHour, error) {
	if !access.IsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins can manage operating hours")
	}
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}

	if req.IsOpen != nil {
		h.IsOpen = *req.IsOpen
	}
	if req.StartTime != nil {
		h.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		h.EndTime = req.EndTime
	}
	if err := validate(h); err != nil {
		return nil, err
	}
	h.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, service.RepoError(err, resource)
	}
	return h, nil
}

// validate: an open day needs both times with start before end.
func validate(h *model.OperatingHour) error {
	if !h.IsOpen {
		return nil
	}
	fields := map[string]string{}
	if h.StartTime == nil {
		fields["start_time"] = "is required when open"
	}
	if h.EndTime == nil {
		fields["end_time"] = "is required when open"
	}
	if len(fields) == 0 && !h.StartTime.Before(*h.EndTime) {
		fields["end_time"] = "must be after start_time"
	}
	if len(fields) > 0 {
		return apperrors.NewValidation("invalid operating hour", fields)
	}
	return nil
}
