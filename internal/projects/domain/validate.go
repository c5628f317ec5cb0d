package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ilewa/ilewa-backend/internal/apperr"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 5000
	MaxLocationLength    = 300
)

// CategorySet is satisfied by the map catalog.
type CategorySet interface {
	HasCategory(key string) bool
}

// Normalize trims every free-text field in place.
func (r *SubmitRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.RepositoryURL = strings.TrimSpace(r.RepositoryURL)
	r.Location = strings.TrimSpace(r.Location)
}

// Validate performs the presence and type checks for a submission.
// The first failing field is reported.
func (r *SubmitRequest) Validate(categories CategorySet) error {
	if r.Category == "" {
		return apperr.Validation("category", "is required")
	}
	if r.Category == CategoryAll || !categories.HasCategory(r.Category) {
		return apperr.Validation("category", "is not a known category")
	}
	if r.Name == "" {
		return apperr.Validation("name", "is required")
	}
	if utf8.RuneCountInString(r.Name) > MaxNameLength {
		return apperr.Validation("name", "is too long")
	}
	if r.RepositoryURL == "" {
		return apperr.Validation("repository_url", "is required")
	}
	if !isHTTPURL(r.RepositoryURL) {
		return apperr.Validation("repository_url", "must be an absolute http(s) URL")
	}
	if r.Location == "" {
		return apperr.Validation("location", "is required")
	}
	if utf8.RuneCountInString(r.Location) > MaxLocationLength {
		return apperr.Validation("location", "is too long")
	}
	if r.Latitude == nil || r.Longitude == nil {
		return apperr.Validation("coordinates", "are required")
	}
	if *r.Latitude < -90 || *r.Latitude > 90 {
		return apperr.Validation("latitude", "must be between -90 and 90")
	}
	if *r.Longitude < -180 || *r.Longitude > 180 {
		return apperr.Validation("longitude", "must be between -180 and 180")
	}
	if utf8.RuneCountInString(r.Description) > MaxDescriptionLength {
		return apperr.Validation("description", "is too long")
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
