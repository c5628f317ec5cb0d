package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	"github.com/ilewa/ilewa-backend/internal/quotes/domain"
	"github.com/ilewa/ilewa-backend/internal/quotes/service"
)

type Handler struct {
	svc *service.QuoteService
	now func() time.Time
}

func New(svc *service.QuoteService) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/today", h.Today)
}

func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
}

func (h *Handler) Today(c *gin.Context) {
	q := h.svc.Today(c.Request.Context(), h.now())
	c.JSON(http.StatusOK, gin.H{"ok": true, "quote": q})
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "quotes": items})
}

func (h *Handler) Create(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("body", "invalid JSON"))
		return
	}
	q, err := h.svc.Create(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "quote": q})
}
