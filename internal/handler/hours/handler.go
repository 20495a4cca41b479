package hours

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/hours"
)

type Handler struct {
	service *hours.Service
}

func NewHandler(service *hours.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	oh := r.Group("/operating-hours")
	{
		oh.GET("", h.ListHours)
		oh.POST("", middleware.RequireAdmin(), h.CreateHour)
		oh.PATCH("/:id", middleware.RequireAdmin(), h.UpdateHour)
	}
}

func (h *Handler) ListHours(c *gin.Context) {
	hours, err := h.service.ListHours(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, hours)
}

func (h *Handler) CreateHour(c *gin.Context) {
	var req model.CreateOperatingHourRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	hour, err := h.service.CreateHour(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, hour)
}

func (h *Handler) UpdateHour(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateOperatingHourRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	hour, err := h.service.UpdateHour(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, hour)
}
