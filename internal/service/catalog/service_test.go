package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository/repotest"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

func newCatalog(t *testing.T) (*Service, *repotest.Services, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	repo := &repotest.Services{Store: store}
	return NewService(repo, time.Minute), repo, store
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestCreateService_Defaults(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Consultation", Price: model.NewMoney(80)})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultServiceDuration, created.DurationMinutes)
	assert.True(t, created.Active)

	_, err = svc.CreateService(ctx, access.Therapist{ProfileID: uuid.New()}, &model.CreateServiceRequest{Name: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden))

	_, err = svc.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Bad", Price: model.NewMoney(-1)})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrValidation))
}

func TestListAndGet_HideInactiveFromNonAdmins(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	active, err := svc.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Active"})
	require.NoError(t, err)
	retired, err := svc.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Retired", Active: boolPtr(false)})
	require.NoError(t, err)

	all, err := svc.ListServices(ctx, access.Admin{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := svc.ListServices(ctx, access.Anonymous{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, active.ID, visible[0].ID)

	_, err = svc.GetService(ctx, access.Patient{ProfileID: uuid.New()}, retired.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	got, err := svc.GetService(ctx, access.Admin{}, retired.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestUpdateService_ReferencedOnlyTogglesActive(t *testing.T) {
	svc, _, store := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Consultation", DurationMinutes: 60})
	require.NoError(t, err)

	sid := created.ID
	require.NoError(t, repotest.Appointments{Store: store}.Create(ctx, &model.Appointment{
		Base:      model.NewBase(time.Now()),
		ServiceID: &sid,
		StartTime: time.Now(),
		Status:    model.AppointmentStatusPending,
	}))

	_, err = svc.UpdateService(ctx, access.Admin{}, sid, &model.UpdateServiceRequest{DurationMinutes: intPtr(90)})
	assert.ErrorIs(t, err, ErrReferenced)

	// Same values are not a change.
	_, err = svc.UpdateService(ctx, access.Admin{}, sid, &model.UpdateServiceRequest{Name: strPtr("Consultation")})
	assert.NoError(t, err)

	updated, err := svc.UpdateService(ctx, access.Admin{}, sid, &model.UpdateServiceRequest{Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestLookup_CachesUntilWrite(t *testing.T) {
	svc, repo, _ := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Massage"})
	require.NoError(t, err)

	_, err = svc.Lookup(ctx, created.ID)
	require.NoError(t, err)
	_, err = svc.Lookup(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Gets)

	_, err = svc.UpdateService(ctx, access.Admin{}, created.ID, &model.UpdateServiceRequest{Price: func() *model.Money { p := model.NewMoney(10); return &p }()})
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.Price.String())
}

func TestDeleteService(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Gone"})
	require.NoError(t, err)

	assert.True(t, apperrors.HasCode(svc.DeleteService(ctx, access.Anonymous{}, created.ID), apperrors.ErrForbidden))
	require.NoError(t, svc.DeleteService(ctx, access.Admin{}, created.ID))

	_, err = svc.Lookup(ctx, created.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	assert.True(t, apperrors.HasCode(svc.DeleteService(ctx, access.Admin{}, created.ID), apperrors.ErrNotFound))
}
