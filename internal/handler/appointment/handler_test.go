package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository/repotest"
	"github.com/jwalitptl/clinic-api/internal/service/catalog"
	"github.com/jwalitptl/clinic-api/internal/service/scheduling"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type tokens map[string]access.Actor

func (t tokens) ResolveActor(ctx context.Context, token string) (access.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

type fixture struct {
	router    *gin.Engine
	therapist access.Therapist
	consult   *model.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	ctx := context.Background()
	store := repotest.NewStore()
	users := repotest.Users{Store: store}
	now := time.Now()

	register := func(email string, p *model.PatientProfile, th *model.TherapistProfile) access.Actor {
		u := &model.User{Base: model.NewBase(now), Email: email, Username: email}
		require.NoError(t, users.Register(ctx, u, p, th))
		id, err := users.GetIdentity(ctx, u.ID)
		require.NoError(t, err)
		return access.FromIdentity(id)
	}
	patient := register("p@example.com", &model.PatientProfile{Base: model.NewBase(now), Status: model.PatientStatusActive}, nil)
	other := register("o@example.com", &model.PatientProfile{Base: model.NewBase(now), Status: model.PatientStatusActive}, nil)
	therapist := register("t@example.com", nil, &model.TherapistProfile{Base: model.NewBase(now), LicenseNumber: "L-1", Status: model.TherapistStatusActive}).(access.Therapist)

	cat := catalog.NewService(&repotest.Services{Store: store}, time.Minute)
	consult, err := cat.CreateService(ctx, access.Admin{}, &model.CreateServiceRequest{Name: "Consultation", DurationMinutes: 50})
	require.NoError(t, err)

	svc := scheduling.NewService(scheduling.Deps{
		Appointments: repotest.Appointments{Store: store},
		Patients:     repotest.Patients{Store: store},
		Therapists:   repotest.Therapists{Store: store},
		Locations:    repotest.Locations{Store: store},
		Availability: repotest.Availability{Store: store},
		Catalog:      cat,
	}, scheduling.DefaultPolicy())

	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.Identify(tokens{
		"patient":   patient,
		"other":     other,
		"therapist": therapist,
	}))
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	return &fixture{router: r, therapist: therapist, consult: consult}
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) (int, handler.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var resp handler.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestAppointmentLifecycle(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute)

	status, resp := f.do(t, http.MethodPost, "/api/v1/appointments", "patient", gin.H{
		"therapist_id": f.therapist.ProfileID,
		"service_id":   f.consult.ID,
		"start_time":   start,
	})
	require.Equal(t, http.StatusCreated, status)
	created := resp.Data.(map[string]interface{})
	assert.Equal(t, "PENDING", created["status"])
	assert.Equal(t, start.Add(50*time.Minute).Format(time.RFC3339), created["end_time"])
	id := created["id"].(string)

	status, _ = f.do(t, http.MethodGet, "/api/v1/appointments/"+id, "patient", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = f.do(t, http.MethodGet, "/api/v1/appointments/"+id, "therapist", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = f.do(t, http.MethodGet, "/api/v1/appointments/"+id, "other", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp = f.do(t, http.MethodGet, "/api/v1/appointments", "other", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Data)

	status, resp = f.do(t, http.MethodGet, "/api/v1/appointments?status=PENDING", "therapist", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 1)

	status, resp = f.do(t, http.MethodPatch, "/api/v1/appointments/"+id, "patient", gin.H{"notes": "running late"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "running late", resp.Data.(map[string]interface{})["notes"])
}

func TestCreateAppointment_Rejections(t *testing.T) {
	f := newFixture(t)

	status, resp := f.do(t, http.MethodPost, "/api/v1/appointments", "patient", gin.H{"notes": "no therapist"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Errors, "therapist_id")

	status, _ = f.do(t, http.MethodPost, "/api/v1/appointments", "therapist", gin.H{
		"therapist_id": f.therapist.ProfileID,
		"start_time":   time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = f.do(t, http.MethodPost, "/api/v1/appointments", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, resp = f.do(t, http.MethodGet, "/api/v1/appointments?status=LATE", "patient", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Errors, "status")

	status, _ = f.do(t, http.MethodGet, "/api/v1/appointments/not-a-uuid", "patient", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
