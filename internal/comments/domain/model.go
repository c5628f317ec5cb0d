package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ilewa/ilewa-backend/internal/apperr"
)

const MaxContentLength = 2000

var ErrNotFound = errors.New("comment not found")

// Comment is a remark on a project. Replies hang off a root comment; the tree is one level deep.
type Comment struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	ParentID   *string   `json:"parent_id,omitempty"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
	Replies    []Comment `json:"replies,omitempty"`
}

func (c Comment) IsRoot() bool { return c.ParentID == nil }

// RootID is the id replies to this comment attach to.
func (c Comment) RootID() string {
	if c.ParentID != nil {
		return *c.ParentID
	}
	return c.ID
}

type CreateRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// LikeResult is the state of a comment after a like toggle.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

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

// BuildTree nests replies under their roots. Input order is kept at each level,
// so a flat list sorted by creation time yields oldest-first roots and replies.
// Replies whose root is missing are dropped.
func BuildTree(flat []Comment) []Comment {
	index := make(map[string]int)
	roots := make([]Comment, 0)
	for _, c := range flat {
		if c.IsRoot() {
			index[c.ID] = len(roots)
			c.Replies = nil
			roots = append(roots, c)
		}
	}
	for _, c := range flat {
		if c.IsRoot() {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			roots[i].Replies = append(roots[i].Replies, c)
		}
	}
	return roots
}
