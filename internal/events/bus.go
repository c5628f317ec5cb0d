package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TypeNotification = "notification"
	TypeMessage      = "message"
	TypeUnreadCount  = "unread_count"
)

// Event is one realtime update delivered to a single user.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Channel is the pub/sub channel carrying a user's events: ilewa:user:{id}:events
func Channel(userID string) string {
	return "ilewa:user:" + userID + ":events"
}

// Bus fans events out to every API instance through Redis pub/sub.
type Bus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

// Publish sends payload to the user's channel.
func (b *Bus) Publish(ctx context.Context, userID, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	raw, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, Channel(userID), raw).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe listens on the user's channel until ctx ends or the returned
// cancel func is called. The channel is closed afterwards.
func (b *Bus) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	ps := b.client.Subscribe(ctx, Channel(userID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Event, 16)
	log := zerolog.Ctx(ctx)
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, func() { _ = ps.Close() }, nil
}
