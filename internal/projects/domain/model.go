package domain

import (
	"errors"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Feed sources: live rows from the store, or the built-in demo dataset.
const (
	SourceLive = "live"
	SourceDemo = "demo"
)

var (
	ErrNotFound = errors.New("project not found")
)

// Project is a user-submitted, geolocated initiative awaiting or past moderation.
type Project struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	RepositoryURL string    `json:"repository_url"`
	Location      string    `json:"location"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// SubmitRequest carries the fields a user fills in on the submission form.
// Coordinates are pointers so a missing value can be told apart from 0.
type SubmitRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	RepositoryURL string   `json:"repository_url"`
	Location      string   `json:"location"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// Stats aggregates project counts for the dashboard.
type Stats struct {
	TotalProjects    int            `json:"totalProjects"`
	ApprovedProjects int            `json:"approvedProjects"`
	PendingProjects  int            `json:"pendingProjects"`
	RejectedProjects int            `json:"rejectedProjects"`
	Categories       map[string]int `json:"categories"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
