package location

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

const resource = "location"

type Service struct {
	repo repository.LocationRepository
	now  func() time.Time
}

func NewService(repo repository.LocationRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListLocations hides inactive locations from non-admins.
func (s *Service) ListLocations(ctx context.Context, actor access.Actor) ([]*model.Location, error) {
	locations, err := s.repo.List(ctx, !access.IsAdmin(actor))
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	return locations, nil
}

func (s *Service) GetLocation(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Location, error) {
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	if !loc.Active && !access.IsAdmin(actor) {
		return nil, apperrors.NotFound(resource, repository.ErrNotFound)
	}
	return loc, nil
}

func (s *Service) CreateLocation(ctx context.Context, actor access.Actor, req *model.CreateLocationRequest) (*model.Location, error) {
	if !access.IsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins can manage locations")
	}
	if req.RoomCount < 0 {
		return nil, apperrors.NewValidation("invalid location", map[string]string{"room_count": "must not be negative"})
	}

	loc := &model.Location{
		Base:      model.NewBase(s.now()),
		Name:      req.Name,
		Address:   req.Address,
		RoomCount: req.RoomCount,
		Active:    true,
	}
	if req.Active != nil {
		loc.Active = *req.Active
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, service.RepoError(err, resource)
	}
	return loc, nil
}

func (s *Service) UpdateLocation(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateLocationRequest) (*model.Location, error) {
	if !access.IsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins can manage locations")
	}
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.RoomCount != nil {
		if *req.RoomCount < 0 {
			return nil, apperrors.NewValidation("invalid location", map[string]string{"room_count": "must not be negative"})
		}
		loc.RoomCount = *req.RoomCount
	}
	if req.Active != nil {
		loc.Active = *req.Active
	}
	loc.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, service.RepoError(err, resource)
	}
	return loc, nil
}

func (s *Service) DeleteLocation(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if !access.IsAdmin(actor) {
		return apperrors.NewForbidden("only admins can manage locations")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return service.RepoError(err, resource)
	}
	return nil
}
