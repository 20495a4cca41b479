package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/profile"
	"github.com/jwalitptl/clinic-api/internal/service/scheduling"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

// Handler serves the current user and the patient and therapist profiles.
type Handler struct {
	profiles   *profile.Service
	scheduling *scheduling.Service
}

func NewHandler(profiles *profile.Service, scheduling *scheduling.Service) *Handler {
	return &Handler{
		profiles:   profiles,
		scheduling: scheduling,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users", middleware.RequireAuth())
	{
		users.GET("/me", h.Me)
		users.PATCH("/me", h.UpdateMe)
		users.POST("/me/image", h.UploadImage)

		users.GET("/patients", h.ListPatients)
		users.GET("/patients/:id", h.GetPatient)
		users.PATCH("/patients/:id", h.UpdatePatient)

		users.GET("/therapists", h.ListTherapists)
		users.GET("/therapists/:id", h.GetTherapist)
		users.PATCH("/therapists/:id", h.UpdateTherapist)
	}
}

func (h *Handler) Me(c *gin.Context) {
	me, err := h.profiles.Me(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, me)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req model.UpdateMeRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	me, err := h.profiles.UpdateMe(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, me)
}

func (h *Handler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, handler.NewErrorResponse("image is too large"))
			return
		}
		handler.RespondError(c, apperrors.NewValidation("image is required", map[string]string{"image": "this field is required"}))
		return
	}

	f, err := fh.Open()
	if err != nil {
		handler.RespondError(c, apperrors.Internal(err))
		return
	}
	defer f.Close()

	me, err := h.profiles.UploadImage(c.Request.Context(), middleware.ActorFrom(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, me)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.scheduling.ListPatients(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.profiles.GetPatient(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	p, err := h.profiles.UpdatePatient(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, p)
}

func (h *Handler) ListTherapists(c *gin.Context) {
	therapists, err := h.profiles.ListTherapists(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, therapists)
}

func (h *Handler) GetTherapist(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	t, err := h.profiles.GetTherapist(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, t)
}

func (h *Handler) UpdateTherapist(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateTherapistRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	t, err := h.profiles.UpdateTherapist(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, t)
}
