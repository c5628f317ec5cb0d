package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrUserNotFound = errors.New("user not found")

// User represents a user in the application.
// The auth provider UID is the primary identifier.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	Role       string     `json:"role"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

func IsValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is what a verified token tells us about the caller.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// SyncRequest carries the data used to upsert a user after sign-in.
type SyncRequest struct {
	ID        string
	Email     string
	FullName  string
	AvatarURL *string
}

// UpdateProfileRequest represents data for updating a profile.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Actor is the caller of a service operation. A zero Actor is anonymous.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool     { return a.Role == RoleAdmin }
func (a Actor) IsAnonymous() bool { return a.ID == "" }
