// Package service holds helpers shared by the domain services under it.
package service

import (
	"errors"

	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

// RepoError translates repository sentinels into application errors.
// AppErrors pass through untouched.
func RepoError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource, err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", err)
	case errors.Is(err, repository.ErrInvalidReference):
		return apperrors.NewValidation(resource+" references a record that does not exist", nil)
	default:
		return apperrors.Internal(err)
	}
}

// Constraint returns the violated unique index name, or "".
func Constraint(err error) string {
	var dup *repository.DuplicateError
	if errors.As(err, &dup) {
		return dup.Constraint
	}
	return ""
}
