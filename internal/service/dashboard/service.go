package dashboard

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/internal/service"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

// Days covered by the appointments-per-day series, today (UTC) included.
const Days = 7

type Service struct {
	stats      repository.DashboardRepository
	patients   repository.PatientRepository
	therapists repository.TherapistRepository
	now        func() time.Time
}

func NewService(stats repository.DashboardRepository, patients repository.PatientRepository, therapists repository.TherapistRepository) *Service {
	return &Service{stats: stats, patients: patients, therapists: therapists, now: time.Now}
}

func (s *Service) Stats(ctx context.Context, actor access.Actor) (*model.DashboardStats, error) {
	if !access.IsAdmin(actor) {
		return nil, apperrors.NewForbidden("only admins can view the dashboard")
	}

	var (
		out = &model.DashboardStats{}
		err error
	)
	if out.TotalPatients, err = s.patients.Count(ctx); err != nil {
		return nil, service.RepoError(err, "patient")
	}
	if out.TotalTherapists, err = s.therapists.Count(ctx); err != nil {
		return nil, service.RepoError(err, "therapist")
	}

	// Days are UTC calendar days, matching the grouping in the store.
	today := model.DateOf(s.now().UTC())
	since := today.AddDate(0, 0, -(Days - 1))
	daily, err := s.stats.CountByDay(ctx, since)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	out.AppointmentsByDay = fillDays(daily, model.Date{Time: since}, Days)

	if out.ByService, err = s.stats.CountByService(ctx); err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	if out.ByStatus, err = s.stats.CountByStatus(ctx); err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	return out, nil
}

// fillDays expands sparse per-day counts into n consecutive days starting at
// from, oldest first, with missing days as zero.
func fillDays(counts []model.DailyCount, from model.Date, n int) []model.DailyCount {
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Date.String()] += c.Count
	}

	out := make([]model.DailyCount, 0, n)
	for i := 0; i < n; i++ {
		d := model.Date{Time: from.AddDate(0, 0, i)}
		out = append(out, model.DailyCount{Date: d, Count: byDay[d.String()]})
	}
	return out
}
