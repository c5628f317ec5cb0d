package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ilewa/ilewa-backend/internal/apperr"
)

const (
	MaxContentLength = 4000
	DefaultPageSize  = 50
	MaxPageSize      = 200
	previewLength    = 80
)

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation summarizes the exchange with one counterpart.
type Conversation struct {
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name"`
	LastMessage Message `json:"last_message"`
	UnreadCount int     `json:"unread_count"`
}

// NormalizeContent trims content and checks its length.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperr.Validation("content", "is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", apperr.Validation("content", "is too long")
	}
	return content, nil
}

// Preview shortens content for notification bodies.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	r := []rune(content)
	return string(r[:previewLength-1]) + "…"
}

func ClampPage(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}
