package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

func TestRepoError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("failed to get note: %w", repository.ErrNotFound), http.StatusNotFound},
		{"duplicate", fmt.Errorf("failed to create: %w", &repository.DuplicateError{Constraint: "users_email_key"}), http.StatusConflict},
		{"invalid reference", fmt.Errorf("failed to create: fk: %w", repository.ErrInvalidReference), http.StatusBadRequest},
		{"driver error", errors.New("connection reset"), http.StatusInternalServerError},
		{"app error passes through", apperrors.NewForbidden("no"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr, ok := apperrors.As(RepoError(tt.err, "clinical note"))
			assert.True(t, ok)
			assert.Equal(t, tt.status, appErr.StatusCode())
		})
	}

	assert.NoError(t, RepoError(nil, "clinical note"))
	assert.Equal(t, "users_email_key", Constraint(fmt.Errorf("wrap: %w", &repository.DuplicateError{Constraint: "users_email_key"})))
}
