package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

func TestErrorBody(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperrors.NewValidation("bad", map[string]string{"name": "is required"}), http.StatusBadRequest, "bad"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.NotFound("service", nil)), http.StatusNotFound, "service not found"},
		{"forbidden", apperrors.NewForbidden("no"), http.StatusForbidden, "no"},
		{"conflict", apperrors.NewConflict("taken", nil), http.StatusConflict, "taken"},
		{"plain error", errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
		{"internal app error", apperrors.Internal(errors.New("secret detail")), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := ErrorBody(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.message, resp.Message)
		})
	}

	_, resp := ErrorBody(apperrors.NewValidation("bad", map[string]string{"name": "is required"}))
	assert.Equal(t, map[string]string{"name": "is required"}, resp.Errors)
}

func TestBindJSONAndParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type body struct {
		Name  string `json:"name" binding:"required"`
		Count int    `json:"count"`
	}

	r := gin.New()
	r.POST("/things/:id", func(c *gin.Context) {
		id, ok := ParamUUID(c, "id")
		if !ok {
			return
		}
		var b body
		if !BindJSON(c, &b) {
			return
		}
		Success(c, http.StatusCreated, gin.H{"id": id, "name": b.Name})
	})

	do := func(id, payload string) (*httptest.ResponseRecorder, Response) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things/"+id, strings.NewReader(payload)))
		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	id := uuid.New().String()

	w, resp := do(id, `{"name":"x"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)

	w, resp = do("not-a-uuid", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Errors, "id")

	w, resp = do(id, `{"name":"x","count":"three"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Errors, "count")

	w, _ = do(id, ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = do(id, `{"count":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, resp.Errors, 1)
}
