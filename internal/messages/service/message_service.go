package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/events"
	"github.com/ilewa/ilewa-backend/internal/messages/domain"
	notifdomain "github.com/ilewa/ilewa-backend/internal/notifications/domain"
)

type Store interface {
	Create(ctx context.Context, m *domain.Message) error
	Conversation(ctx context.Context, a, b string, before *time.Time, limit int) ([]domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	MarkRead(ctx context.Context, receiver, sender string) (int64, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*authdomain.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message string) error
}

type Publisher interface {
	Publish(ctx context.Context, userID, eventType string, payload interface{}) error
}

type MessageService struct {
	repo     Store
	users    UserDirectory
	notifier Notifier
	bus      Publisher
}

func NewMessageService(repo Store, users UserDirectory, notifier Notifier, bus Publisher) *MessageService {
	return &MessageService{repo: repo, users: users, notifier: notifier, bus: bus}
}

// Send stores a direct message, notifies the receiver and pushes it to their live streams.
func (s *MessageService) Send(ctx context.Context, actor authdomain.Actor, receiverID, content string) (*domain.Message, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("")
	}
	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return nil, apperr.Validation("receiver_id", "is required")
	}
	if receiverID == actor.ID {
		return nil, apperr.Validation("receiver_id", "cannot message yourself")
	}
	content, err := domain.NormalizeContent(content)
	if err != nil {
		return nil, err
	}

	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, apperr.NotFound("user", receiverID)
		}
		return nil, err
	}

	msg := &domain.Message{SenderID: actor.ID, ReceiverID: receiver.ID, Content: content}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx)
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, receiver.ID, notifdomain.TypeMessage, "New message", domain.Preview(content)); err != nil {
			log.Warn().Err(err).Str("message_id", msg.ID).Msg("message notification failed")
		}
	}
	if s.bus != nil {
		if err := s.bus.Publish(ctx, receiver.ID, events.TypeMessage, msg); err != nil {
			log.Warn().Err(err).Str("message_id", msg.ID).Msg("message publish failed")
		}
	}
	return msg, nil
}

// Conversation returns a page of the exchange between the actor and another user, oldest first.
func (s *MessageService) Conversation(ctx context.Context, actor authdomain.Actor, with string, before *time.Time, limit int) ([]domain.Message, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("")
	}
	if strings.TrimSpace(with) == "" {
		return nil, apperr.Validation("user_id", "is required")
	}
	return s.repo.Conversation(ctx, actor.ID, with, before, domain.ClampPage(limit))
}

func (s *MessageService) Conversations(ctx context.Context, actor authdomain.Actor) ([]domain.Conversation, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("")
	}
	return s.repo.Conversations(ctx, actor.ID)
}

// MarkRead marks the messages the actor received from `with` read.
func (s *MessageService) MarkRead(ctx context.Context, actor authdomain.Actor, with string) (int64, error) {
	if actor.IsAnonymous() {
		return 0, apperr.Unauthorized("")
	}
	return s.repo.MarkRead(ctx, actor.ID, with)
}
