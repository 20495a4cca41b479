package location

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
	"github.com/jwalitptl/clinic-api/internal/service/location"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type tokens map[string]access.Actor

func (t tokens) ResolveActor(ctx context.Context, token string) (access.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

func TestLocationRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.Identify(tokens{
		"admin":   access.Admin{User: uuid.New()},
		"patient": access.Patient{User: uuid.New(), ProfileID: uuid.New()},
	}))
	NewHandler(location.NewService(repotest.Locations{Store: repotest.NewStore()})).RegisterRoutes(r.Group("/api/v1"))

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

	status, _ := do(http.MethodGet, "/api/v1/locations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(http.MethodPost, "/api/v1/locations", "patient", gin.H{"name": "North"})
	assert.Equal(t, http.StatusForbidden, status)

	status, resp := do(http.MethodPost, "/api/v1/locations", "admin", gin.H{"address": "1 Main St"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Errors, "name")

	status, resp = do(http.MethodPost, "/api/v1/locations", "admin", gin.H{"name": "North", "room_count": 3})
	require.Equal(t, http.StatusCreated, status)
	north := resp.Data.(map[string]interface{})
	assert.Equal(t, true, north["active"])
	northID := north["id"].(string)

	status, resp = do(http.MethodPost, "/api/v1/locations", "admin", gin.H{"name": "Annex", "active": false})
	require.Equal(t, http.StatusCreated, status)
	annexID := resp.Data.(map[string]interface{})["id"].(string)

	status, resp = do(http.MethodGet, "/api/v1/locations", "patient", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 1, "inactive locations are hidden from non-admins")

	status, resp = do(http.MethodGet, "/api/v1/locations", "admin", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 2)

	status, _ = do(http.MethodGet, "/api/v1/locations/"+annexID, "patient", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = do(http.MethodPatch, "/api/v1/locations/"+northID, "admin", gin.H{"room_count": 5})
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, resp.Data.(map[string]interface{})["room_count"])
	assert.Equal(t, "North", resp.Data.(map[string]interface{})["name"])

	status, _ = do(http.MethodPatch, "/api/v1/locations/"+northID, "admin", gin.H{"room_count": -1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(http.MethodDelete, "/api/v1/locations/"+northID, "admin", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(http.MethodGet, "/api/v1/locations/"+northID, "admin", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
