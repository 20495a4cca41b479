package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Success writes data in the success envelope.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

// StatusOf maps err onto an HTTP status. Errors that are not AppErrors are
// internal.
func StatusOf(err error) int {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// ErrorBody builds the error envelope for err. Messages of 5xx errors never
// leave the process.
func ErrorBody(err error) (int, *Response) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		return status, NewErrorResponse("internal server error")
	}
	appErr, _ := apperrors.As(err)
	resp := NewErrorResponse(appErr.Message)
	resp.Errors = appErr.Fields
	return status, resp
}

// RespondError attaches err to the context for the error logger and writes
// the error envelope.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, resp := ErrorBody(err)
	c.AbortWithStatusJSON(status, resp)
}
