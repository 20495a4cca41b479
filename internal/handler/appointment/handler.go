package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/scheduling"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type Handler struct {
	service *scheduling.Service
}

func NewHandler(service *scheduling.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments", middleware.RequireAuth())
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id", h.UpdateAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appointment)
}

// ListAppointments accepts patient_id, therapist_id, status, start_date and
// end_date. The caller's scope always wins over the id filters.
func (h *Handler) ListAppointments(c *gin.Context) {
	var filters model.AppointmentFilters
	var ok bool

	if filters.PatientID, ok = handler.QueryUUID(c, "patient_id"); !ok {
		return
	}
	if filters.TherapistID, ok = handler.QueryUUID(c, "therapist_id"); !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
		if !filters.Status.Valid() {
			handler.RespondError(c, apperrors.NewValidation("invalid status", map[string]string{"status": "value is not allowed"}))
			return
		}
	}
	if filters.StartDate, ok = handler.QueryTime(c, "start_date"); !ok {
		return
	}
	if filters.EndDate, ok = handler.QueryTime(c, "end_date"); !ok {
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), middleware.ActorFrom(c), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	appointment, err := h.service.UpdateAppointment(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, appointment)
}
