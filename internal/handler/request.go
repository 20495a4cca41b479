package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

var tagMessages = map[string]string{
	"required": "this field is required",
	"email":    "enter a valid email address",
	"min":      "value is too short",
	"max":      "value is too long",
	"gt":       "value is too small",
	"gte":      "value is too small",
	"oneof":    "value is not allowed",
	"weekday":  "must be between 0 and 6",
}

// BindJSON decodes the request body into obj. On failure it writes a 400
// with one entry per offending field and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondError(c, BindError(err))
		return false
	}
	return true
}

// BindError turns a binding failure into a validation AppError.
func BindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			msg, ok := tagMessages[fe.Tag()]
			if !ok {
				msg = fmt.Sprintf("failed on %s", fe.Tag())
			}
			fields[fe.Field()] = msg
		}
		return apperrors.NewValidation("invalid request", fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewValidation("invalid request", map[string]string{typeErr.Field: "has the wrong type"})
	}
	if errors.Is(err, io.EOF) {
		return apperrors.NewValidation("request body is required", nil)
	}
	return apperrors.NewValidation("invalid request body: "+err.Error(), nil)
}

// ParamUUID reads a path parameter. It writes a 400 and returns false when
// the value is not a UUID.
func ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, apperrors.NewValidation("invalid "+name, map[string]string{name: "must be a UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

// QueryUUID reads an optional query parameter.
func QueryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, apperrors.NewValidation("invalid "+name, map[string]string{name: "must be a UUID"}))
		return nil, false
	}
	return &id, true
}

// QueryTime reads an optional RFC 3339 timestamp or YYYY-MM-DD date.
func QueryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	RespondError(c, apperrors.NewValidation("invalid "+name, map[string]string{name: "must be a date or RFC 3339 timestamp"}))
	return time.Time{}, false
}
