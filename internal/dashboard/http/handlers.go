package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	"github.com/ilewa/ilewa-backend/internal/dashboard/service"
)

type Handler struct {
	svc *service.DashboardService
}

func New(svc *service.DashboardService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Stats)
}

func (h *Handler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": st})
}
