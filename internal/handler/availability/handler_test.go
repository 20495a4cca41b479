package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/repository/repotest"
	"github.com/jwalitptl/clinic-api/internal/service/availability"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type tokens map[string]access.Actor

func (t tokens) ResolveActor(ctx context.Context, token string) (access.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

func TestAvailabilityRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	therapist := access.Therapist{User: uuid.New(), ProfileID: uuid.New()}
	other := access.Therapist{User: uuid.New(), ProfileID: uuid.New()}

	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.Identify(tokens{
		"therapist": therapist,
		"other":     other,
		"patient":   access.Patient{User: uuid.New(), ProfileID: uuid.New()},
	}))
	svc := availability.NewService(repotest.Availability{Store: repotest.NewStore()}, nil, nil, false)
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	do := func(method, path, token string, body interface{}) (int, handler.Response) {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var resp handler.Response
		if w.Body.Len() > 0 {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		}
		return w.Code, resp
	}

	window := gin.H{"date": "2099-01-05", "start_time": "09:00", "end_time": "12:00"}

	status, _ := do(http.MethodPost, "/api/v1/availability", "", window)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = do(http.MethodPost, "/api/v1/availability", "patient", window)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp := do(http.MethodPost, "/api/v1/availability", "therapist", gin.H{"date": "2099-01-05"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Errors, "start_time")
	assert.Contains(t, resp.Errors, "end_time")

	status, _ = do(http.MethodPost, "/api/v1/availability", "therapist", gin.H{"date": "2099-01-05", "start_time": "25:00", "end_time": "12:00"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = do(http.MethodPost, "/api/v1/availability", "therapist", window)
	require.Equal(t, http.StatusCreated, status)
	created := resp.Data.(map[string]interface{})
	assert.Equal(t, therapist.ProfileID.String(), created["therapist_id"])
	assert.Equal(t, "09:00:00", created["start_time"])
	id := created["id"].(string)

	status, _ = do(http.MethodPost, "/api/v1/availability", "therapist", window)
	assert.Equal(t, http.StatusConflict, status)

	status, _ = do(http.MethodPost, "/api/v1/availability", "therapist", gin.H{"date": "2099-01-05", "start_time": "11:00", "end_time": "13:00"})
	assert.Equal(t, http.StatusConflict, status, "overlapping window")

	status, resp = do(http.MethodGet, "/api/v1/availability", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 0, "anonymous callers must name a therapist")

	status, resp = do(http.MethodGet, "/api/v1/availability?therapist_id="+therapist.ProfileID.String(), "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 1)

	status, _ = do(http.MethodGet, "/api/v1/availability?therapist_id=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(http.MethodPut, "/api/v1/availability/"+id, "other", gin.H{"date": "2099-01-06", "start_time": "09:00", "end_time": "10:00"})
	assert.Equal(t, http.StatusForbidden, status)

	status, resp = do(http.MethodPut, "/api/v1/availability/"+id, "therapist", gin.H{"date": "2099-01-06", "start_time": "09:00", "end_time": "10:00"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2099-01-06", resp.Data.(map[string]interface{})["date"])

	status, _ = do(http.MethodDelete, "/api/v1/availability/"+id, "other", nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = do(http.MethodDelete, "/api/v1/availability/"+id, "therapist", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(http.MethodDelete, "/api/v1/availability/"+id, "therapist", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
