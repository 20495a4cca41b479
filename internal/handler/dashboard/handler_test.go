package dashboard

import (
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
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/repository/repotest"
	"github.com/jwalitptl/clinic-api/internal/service/dashboard"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type tokens map[string]access.Actor

func (t tokens) ResolveActor(ctx context.Context, token string) (access.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

func TestDashboardRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := repotest.NewStore()
	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.Identify(tokens{
		"admin":   access.Admin{User: uuid.New()},
		"patient": access.Patient{User: uuid.New(), ProfileID: uuid.New()},
	}))
	svc := dashboard.NewService(repotest.Dashboard{Store: store}, repotest.Patients{Store: store}, repotest.Therapists{Store: store})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, get("").Code)
	assert.Equal(t, http.StatusForbidden, get("patient").Code)

	w := get("admin")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			TotalPatients int `json:"total_patients"`
			Days          []struct {
				Date  string `json:"date"`
				Count int    `json:"count"`
			} `json:"appointments_last_7_days"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.TotalPatients)
	assert.Len(t, resp.Data.Days, dashboard.Days)
}
