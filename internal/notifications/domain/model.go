package domain

import (
	"errors"
	"time"
)

const (
	TypeProjectApproved = "project_approved"
	TypeProjectRejected = "project_rejected"
	TypeComment         = "comment"
	TypeReply           = "reply"
	TypeReaction        = "reaction"
	TypeMessage         = "message"
	TypeSystem          = "system"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func IsValidType(t string) bool {
	switch t {
	case TypeProjectApproved, TypeProjectRejected, TypeComment, TypeReply,
		TypeReaction, TypeMessage, TypeSystem:
		return true
	}
	return false
}

// ClampLimit maps a requested page size into [1, MaxLimit].
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}
