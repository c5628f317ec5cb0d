package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/messages/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	const q = `
INSERT INTO messages (id, sender_id, receiver_id, content)
VALUES ($1, $2, $3, $4)
RETURNING read, created_at;
`
	if err := r.db.QueryRowContext(ctx, q, m.ID, m.SenderID, m.ReceiverID, m.Content).Scan(&m.Read, &m.CreatedAt); err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return apperr.Validation("sender_id", "user is not registered")
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Conversation returns one page of messages between a and b, oldest first.
// The page holds the newest messages created before `before` when it is set.
func (r *MessageRepository) Conversation(ctx context.Context, a, b string, before *time.Time, limit int) ([]domain.Message, error) {
	q := `
SELECT id, sender_id, receiver_id, content, read, created_at
FROM messages
WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))`
	args := []interface{}{a, b}
	if before != nil {
		args = append(args, *before)
		q += fmt.Sprintf(` AND created_at < $%d`, len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d;`, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Message, 0, limit)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Conversations lists every counterpart of userID with the latest message, most recent first.
func (r *MessageRepository) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	const q = `
SELECT c.other, COALESCE(NULLIF(u.full_name, ''), u.email, ''),
       c.id, c.sender_id, c.receiver_id, c.content, c.read, c.created_at
FROM (
  SELECT DISTINCT ON (other) *
  FROM (
    SELECT m.*, CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS other
    FROM messages m
    WHERE m.sender_id = $1 OR m.receiver_id = $1
  ) t
  ORDER BY other, created_at DESC, id DESC
) c
LEFT JOIN users u ON u.id = c.other;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Conversation, 0)
	for rows.Next() {
		var c domain.Conversation
		m := &c.LastMessage
		if err := rows.Scan(&c.UserID, &c.UserName, &m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	unread, err := r.unreadBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].UnreadCount = unread[out[i].UserID]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})
	return out, nil
}

func (r *MessageRepository) unreadBySender(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT sender_id, COUNT(*)
FROM messages
WHERE receiver_id = $1 AND read = false
GROUP BY sender_id;`, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread messages: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			sender string
			n      int
		)
		if err := rows.Scan(&sender, &n); err != nil {
			return nil, err
		}
		out[sender] = n
	}
	return out, rows.Err()
}

// MarkRead marks every message from sender to receiver read.
func (r *MessageRepository) MarkRead(ctx context.Context, receiver, sender string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE messages SET read = true
WHERE receiver_id = $1 AND sender_id = $2 AND read = false;`, receiver, sender)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return res.RowsAffected()
}
