package location

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/location"
)

type Handler struct {
	service *location.Service
}

func NewHandler(service *location.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	locations := r.Group("/locations", middleware.RequireAuth())
	{
		locations.GET("", h.ListLocations)
		locations.GET("/:id", h.GetLocation)
		locations.POST("", middleware.RequireAdmin(), h.CreateLocation)
		locations.PATCH("/:id", middleware.RequireAdmin(), h.UpdateLocation)
		locations.DELETE("/:id", middleware.RequireAdmin(), h.DeleteLocation)
	}
}

func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, locations)
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	loc, err := h.service.GetLocation(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, loc)
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req model.CreateLocationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	loc, err := h.service.CreateLocation(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, loc)
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req model.UpdateLocationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	loc, err := h.service.UpdateLocation(c.Request.Context(), middleware.ActorFrom(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, loc)
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	id, ok := handler.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
