package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	"github.com/ilewa/ilewa-backend/internal/comments/domain"
	"github.com/ilewa/ilewa-backend/internal/comments/service"
)

type Handler struct {
	svc *service.CommentService
}

func New(svc *service.CommentService) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublic mounts the read routes that work without a session.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/comments", h.List)
}

// Register mounts the write routes. write runs before Create, typically a rate limiter.
func (h *Handler) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	rg.POST("/projects/:id/comments", append(write, h.Create)...)
	rg.DELETE("/comments/:id", h.Delete)
	rg.POST("/comments/:id/like", h.ToggleLike)
}

func (h *Handler) List(c *gin.Context) {
	tree, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "comments": tree})
}

func (h *Handler) Create(c *gin.Context) {
	var req domain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("body", "invalid JSON"))
		return
	}
	comment, err := h.svc.Create(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "comment": comment})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.ActorFrom(c), c.Param("id")); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ToggleLike(c *gin.Context) {
	res, err := h.svc.ToggleLike(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "likes": res.Likes, "liked": res.Liked})
}
