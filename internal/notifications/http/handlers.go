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
	"github.com/ilewa/ilewa-backend/internal/notifications/service"
)

// Subscriber opens a user's realtime event feed.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan events.Event, func(), error)
}

type Handler struct {
	svc       *service.NotificationService
	sub       Subscriber
	keepAlive time.Duration
}

func New(svc *service.NotificationService, sub Subscriber) *Handler {
	return &Handler{svc: svc, sub: sub, keepAlive: events.KeepAliveInterval}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.POST("/read-all", h.MarkAllRead)
	rg.POST("/:id/read", h.MarkRead)
	rg.GET("/stream", h.Stream)
}

func (h *Handler) List(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.svc.List(c.Request.Context(), auth.ActorFrom(c), unreadOnly, limit)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": items})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.svc.UnreadCount(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": n})
}

func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), auth.ActorFrom(c), c.Param("id")); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	n, err := h.svc.MarkAllRead(c.Request.Context(), auth.ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
}

// Stream pushes the unread count, then each new notification, over SSE.
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	actor := auth.ActorFrom(c)

	count, err := h.svc.UnreadCount(ctx, actor)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	initial, err := events.NewEvent(events.TypeUnreadCount, gin.H{"count": count})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	feed, stop, err := h.sub.Subscribe(ctx, actor.ID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	defer stop()

	zerolog.Ctx(ctx).Debug().Str("user_id", actor.ID).Msg("notification stream opened")
	events.Stream(c, []events.Event{initial}, events.Only(ctx, feed, events.TypeNotification), h.keepAlive)
}
