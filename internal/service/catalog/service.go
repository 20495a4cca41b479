package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

const resource = "service"

var ErrReferenced = apperrors.NewValidation("service is referenced by appointments", map[string]string{
	"service": "only active may change once appointments reference this service",
})

// Service owns the offering catalog. Lookups used while booking are served
// from an in-process cache keyed by service id.
type Service struct {
	repo  repository.ServiceRepository
	cache *cache.Cache
	now   func() time.Time
}

func NewService(repo repository.ServiceRepository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
		now:   time.Now,
	}
}

// Lookup returns a service regardless of scope. Callers apply their own rules
// (the scheduling engine rejects inactive ones).
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		svc := *cached.(*model.Service)
		return &svc, nil
	}

	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	stored := *svc
	s.cache.Set(id.String(), &stored, cache.DefaultExpiration)
	return svc, nil
}

func (s *Service) ListServices(ctx context.Context, actor access.Actor) ([]*model.Service, error) {
	scope := access.ServiceScope(actor)
	services, err := s.repo.List(ctx, &model.ServiceFilters{ActiveOnly: scope.Kind == access.ScopeActive})
	if err != nil {
		return nil, service.RepoError(err, resource)
	}
	return services, nil
}

// GetService hides inactive services from everyone but admins.
func (s *Service) GetService(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Service, error) {
	svc, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.Active && access.ServiceScope(actor).Kind != access.ScopeAll {
		return nil, apperrors.NotFound(resource, repository.ErrNotFound)
	}
	return svc, nil
}

func (s *Service) CreateService(ctx context.Context, actor access.Actor, req *model.CreateServiceRequest) (*model.Service, error) {
	if !access.IsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins can manage services")
	}
	if err := validate(req.Name, req.DurationMinutes, req.Price); err != nil {
		return nil, err
	}

	svc := &model.Service{
		Base:            model.NewBase(s.now()),
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}
	if svc.DurationMinutes == 0 {
		svc.DurationMinutes = model.DefaultServiceDuration
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, service.RepoError(err, resource)
	}
	return svc, nil
}

// UpdateService applies a partial update. Once an appointment references the
// service only the active flag may change.
func (s *Service) UpdateService(ctx context.Context, actor access.Actor, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	if !access.IsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins can manage services")
	}

	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, resource)
	}

	changed := *svc
	if req.Name != nil {
		changed.Name = *req.Name
	}
	if req.Description != nil {
		changed.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		changed.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		changed.Price = *req.Price
	}
	if err := validate(changed.Name, changed.DurationMinutes, changed.Price); err != nil {
		return nil, err
	}

	if changed.Name != svc.Name || changed.Description != svc.Description ||
		changed.DurationMinutes != svc.DurationMinutes || !changed.Price.Equal(svc.Price) {
		referenced, err := s.repo.IsReferenced(ctx, id)
		if err != nil {
			return nil, service.RepoError(err, resource)
		}
		if referenced {
			return nil, ErrReferenced
		}
	}
	if req.Active != nil {
		changed.Active = *req.Active
	}
	changed.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &changed); err != nil {
		return nil, service.RepoError(err, resource)
	}
	s.cache.Delete(id.String())
	return &changed, nil
}

// DeleteService removes the row; referencing appointments keep their end time
// and lose the service reference.
func (s *Service) DeleteService(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if !access.IsAdmin(actor) {
		return apperrors.NewForbidden("only admins can manage services")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return service.RepoError(err, resource)
	}
	s.cache.Delete(id.String())
	return nil
}

func validate(name string, duration int, price model.Money) error {
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "is required"
	}
	if duration < 0 {
		fields["duration_minutes"] = "must be greater than 0"
	}
	if price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apperrors.NewValidation("invalid service", fields)
	}
	return nil
}
