package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/availability"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes leaves the listing open to anonymous callers, who may
// browse one therapist's upcoming windows.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	windows := r.Group("/availability")
	{
		windows.GET("", h.ListAvailability)
		windows.POST("", middleware.RequireAuth(), h.CreateAvailability)
		windows.PUT("/:id", middleware.RequireAuth(), h.UpdateAvailability)
		windows.DELETE("/:id", middleware.RequireAuth(), h.DeleteAvailability)
	}
}

func (h *Handler) ListAvailability(c *gin.Context) {
	therapistID, ok := handler.QueryUUID(c, "therapist_id")
	if !ok {
		return
	}

	windows, err := h.service.ListAvailability(c.Request.Context(), middleware.ActorFrom(c), therapistID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, windows)
}

func (h *Handler) CreateAvailability(c *gin.Context) {
	var req model.AvailabilityRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	window, err := h.service.CreateAvailability(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, window)
}

func (h *Handler) UpdateAvailability(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.AvailabilityRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	window, err := h.service.UpdateAvailability(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, window)
}

func (h *Handler) DeleteAvailability(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAvailability(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
