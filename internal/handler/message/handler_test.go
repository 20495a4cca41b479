package message

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/access"
	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository/repotest"
	"github.com/jwalitptl/clinic-api/internal/service/message"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type tokens map[string]access.Actor

func (t tokens) ResolveActor(ctx context.Context, token string) (access.Actor, error) {
	if a, ok := t[token]; ok {
		return a, nil
	}
	return nil, apperrors.Unauthorized(nil)
}

func TestMessageRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	store := repotest.NewStore()
	users := repotest.Users{Store: store}
	now := time.Now()
	alice := &model.User{Base: model.NewBase(now), Email: "alice@example.com", Username: "alice", Role: model.RolePatient}
	bob := &model.User{Base: model.NewBase(now), Email: "bob@example.com", Username: "bob", Role: model.RoleTherapist}
	require.NoError(t, users.Create(context.Background(), alice))
	require.NoError(t, users.Create(context.Background(), bob))

	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.Identify(tokens{
		"alice": access.Patient{User: alice.ID, ProfileID: uuid.New()},
		"bob":   access.Therapist{User: bob.ID, ProfileID: uuid.New()},
	}))
	NewHandler(message.NewService(repotest.Messages{Store: store}, users, nil, nil)).RegisterRoutes(r.Group("/api/v1"))

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

	toBob := "/api/v1/messages/" + bob.ID.String()
	toAlice := "/api/v1/messages/" + alice.ID.String()

	status, _ := do(http.MethodPost, toBob, "", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, resp := do(http.MethodPost, toBob, "alice", gin.H{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Errors, "content")

	status, _ = do(http.MethodPost, toBob, "alice", gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(http.MethodPost, "/api/v1/messages/"+uuid.NewString(), "alice", gin.H{"content": "hello?"})
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = do(http.MethodPost, toBob, "alice", gin.H{"content": "see you tuesday"})
	require.Equal(t, http.StatusCreated, status)
	sent := resp.Data.(map[string]interface{})
	assert.Equal(t, alice.ID.String(), sent["sender"])
	assert.Equal(t, bob.ID.String(), sent["receiver"])
	assert.Equal(t, false, sent["is_read"])

	status, resp = do(http.MethodGet, toAlice, "bob", nil)
	require.Equal(t, http.StatusOK, status)
	thread := resp.Data.([]interface{})
	require.Len(t, thread, 1)
	assert.Equal(t, true, thread[0].(map[string]interface{})["is_read"], "history marks received messages read")

	status, resp = do(http.MethodGet, toBob, "alice", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data, 1)
}
