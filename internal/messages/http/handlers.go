package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	"github.com/ilewa/ilewa-backend/internal/events"
	"github.com/ilewa/ilewa-backend/internal/messages/service"
)

type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan events.Event, func(), error)
}

type Handler struct {
	svc       *service.MessageService
	sub       Subscriber
	keepAlive time.Duration
}

func New(svc *service.MessageService, sub Subscriber) *Handler {
	return &Handler{svc: svc, sub: sub, keepAlive: events.KeepAliveInterval}
}

type sendBody struct {
	Content string `json:"content" binding:"required"`
}

// Register mounts the message routes. write runs before Send, typically a rate limiter.
func (h *Handler) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	rg.GET("/conversations", h.Conversations)
	rg.GET("/stream", h.Stream)
	rg.GET("/:userId", h.Conversation)
	rg.POST("/:userId", append(write, h.Send)...)
	rg.POST("/:userId/read", h.MarkRead)
}

func (h *Handler) Conversations(c *gin.Context) {
	items, err := h.svc.Conversations(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "conversations": items})
}

func (h *Handler) Conversation(c *gin.Context) {
	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			apperr.Respond(c, apperr.Validation("before", "must be an RFC3339 timestamp"))
			return
		}
		before = &t
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.svc.Conversation(c.Request.Context(), auth.ActorFrom(c), c.Param("userId"), before, limit)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": items})
}

func (h *Handler) Send(c *gin.Context) {
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Respond(c, apperr.Validation("content", "is required"))
		return
	}
	msg, err := h.svc.Send(c.Request.Context(), auth.ActorFrom(c), c.Param("userId"), body.Content)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "message": msg})
}

func (h *Handler) MarkRead(c *gin.Context) {
	n, err := h.svc.MarkRead(c.Request.Context(), auth.ActorFrom(c), c.Param("userId"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
}

// Stream pushes incoming direct messages over SSE.
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	actor := auth.ActorFrom(c)
	if actor.IsAnonymous() {
		apperr.Respond(c, apperr.Unauthorized(""))
		return
	}

	feed, stop, err := h.sub.Subscribe(ctx, actor.ID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	defer stop()

	zerolog.Ctx(ctx).Debug().Str("user_id", actor.ID).Msg("message stream opened")
	events.Stream(c, nil, events.Only(ctx, feed, events.TypeMessage), h.keepAlive)
}
