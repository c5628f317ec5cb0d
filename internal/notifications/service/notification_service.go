package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/events"
	"github.com/ilewa/ilewa-backend/internal/notifications/domain"
)

type Store interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type Publisher interface {
	Publish(ctx context.Context, userID, eventType string, payload interface{}) error
}

type NotificationService struct {
	repo Store
	bus  Publisher
}

func NewNotificationService(repo Store, bus Publisher) *NotificationService {
	return &NotificationService{repo: repo, bus: bus}
}

// Notify stores a notification and pushes it to the user's live streams.
// A failed push is logged; the stored row is the source of truth.
func (s *NotificationService) Notify(ctx context.Context, userID, kind, title, message string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Validation("user_id", "is required")
	}
	if !domain.IsValidType(kind) {
		return apperr.Validation("type", fmt.Sprintf("unknown notification type %q", kind))
	}

	n := &domain.Notification{UserID: userID, Type: kind, Title: title, Message: message}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, userID, events.TypeNotification, n); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("notification publish failed")
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, actor authdomain.Actor, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("")
	}
	return s.repo.List(ctx, actor.ID, unreadOnly, domain.ClampLimit(limit))
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor authdomain.Actor) (int, error) {
	if actor.IsAnonymous() {
		return 0, apperr.Unauthorized("")
	}
	return s.repo.UnreadCount(ctx, actor.ID)
}

// MarkRead marks one of the actor's notifications read. Other users' notifications are not found.
func (s *NotificationService) MarkRead(ctx context.Context, actor authdomain.Actor, id string) error {
	if actor.IsAnonymous() {
		return apperr.Unauthorized("")
	}
	ok, err := s.repo.MarkRead(ctx, actor.ID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification", id)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor authdomain.Actor) (int64, error) {
	if actor.IsAnonymous() {
		return 0, apperr.Unauthorized("")
	}
	return s.repo.MarkAllRead(ctx, actor.ID)
}
