package message

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/message"
)

type Handler struct {
	service *message.Service
}

func NewHandler(service *message.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages", middleware.RequireAuth())
	{
		messages.GET("/:other_user_id", h.History)
		messages.POST("/:other_user_id", h.Send)
	}
}

func (h *Handler) History(c *gin.Context) {
	other, ok := handler.ParamUUID(c, "other_user_id")
	if !ok {
		return
	}

	thread, err := h.service.History(c.Request.Context(), middleware.ActorFrom(c), other)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusOK, thread)
}

func (h *Handler) Send(c *gin.Context) {
	other, ok := handler.ParamUUID(c, "other_user_id")
	if !ok {
		return
	}
	var req model.SendMessageRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	msg, err := h.service.Send(c.Request.Context(), middleware.ActorFrom(c), other, req.Content)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.Success(c, http.StatusCreated, msg)
}
