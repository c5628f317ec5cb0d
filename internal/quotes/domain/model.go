package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ilewa/ilewa-backend/internal/apperr"
)

const (
	MaxTextLength   = 1000
	MaxAuthorLength = 200
)

type DailyQuote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	SourceURL *string   `json:"source_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateRequest struct {
	Text      string  `json:"text"`
	Author    string  `json:"author"`
	SourceURL *string `json:"source_url"`
}

const (
	defaultText   = "La cartographie est l'art de représenter le monde tel qu'il est, tel qu'il pourrait être, et tel qu'il devrait être."
	defaultAuthor = "John Snow"
	defaultSource = "https://en.wikipedia.org/wiki/John_Snow"
)

// Default is served when no quote is stored.
func Default() DailyQuote {
	src := defaultSource
	return DailyQuote{
		ID:        "default",
		Text:      defaultText,
		Author:    defaultAuthor,
		SourceURL: &src,
	}
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PickIndex selects the quote shown on day: days since the Unix epoch modulo count.
func PickIndex(day time.Time, count int) int {
	if count <= 0 {
		return 0
	}
	days := Day(day).Unix() / 86400
	idx := int(days % int64(count))
	if idx < 0 {
		idx += count
	}
	return idx
}

// UntilMidnight is the time left in t's UTC day.
func UntilMidnight(t time.Time) time.Duration {
	return Day(t).Add(24 * time.Hour).Sub(t.UTC())
}

func (r CreateRequest) Normalize() (CreateRequest, error) {
	r.Text = strings.TrimSpace(r.Text)
	r.Author = strings.TrimSpace(r.Author)
	if r.Text == "" {
		return r, apperr.Validation("text", "is required")
	}
	if utf8.RuneCountInString(r.Text) > MaxTextLength {
		return r, apperr.Validation("text", "is too long")
	}
	if r.Author == "" {
		return r, apperr.Validation("author", "is required")
	}
	if utf8.RuneCountInString(r.Author) > MaxAuthorLength {
		return r, apperr.Validation("author", "is too long")
	}
	if r.SourceURL != nil {
		u := strings.TrimSpace(*r.SourceURL)
		if u == "" {
			r.SourceURL = nil
		} else {
			r.SourceURL = &u
		}
	}
	return r, nil
}
