package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/comments/domain"
	"github.com/ilewa/ilewa-backend/internal/comments/service"
	projdomain "github.com/ilewa/ilewa-backend/internal/projects/domain"
)

type memStore struct {
	items []domain.Comment
	likes map[string]bool
}

func (m *memStore) ListByProject(_ context.Context, projectID string) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, c := range m.items {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			c := m.items[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) Create(_ context.Context, c *domain.Comment) error {
	c.ID = fmt.Sprintf("c%d", len(m.items)+1)
	c.CreatedAt = time.Now()
	m.items = append(m.items, *c)
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
	kept := m.items[:0]
	found := false
	for _, c := range m.items {
		if c.ID == id || (c.ParentID != nil && *c.ParentID == id) {
			found = found || c.ID == id
			continue
		}
		kept = append(kept, c)
	}
	m.items = kept
	return found, nil
}

func (m *memStore) ToggleLike(_ context.Context, commentID, userID string) (domain.LikeResult, error) {
	key := commentID + "/" + userID
	m.likes[key] = !m.likes[key]
	for i := range m.items {
		if m.items[i].ID == commentID {
			if m.likes[key] {
				m.items[i].Likes++
			} else {
				m.items[i].Likes--
			}
			return domain.LikeResult{Likes: m.items[i].Likes, Liked: m.likes[key]}, nil
		}
	}
	return domain.LikeResult{}, domain.ErrNotFound
}

type projects map[string]*projdomain.Project

func (p projects) Get(_ context.Context, id string, _ authdomain.Actor) (*projdomain.Project, error) {
	if pr, ok := p[id]; ok {
		return pr, nil
	}
	return nil, apperr.NotFound("project", id)
}

func setup(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := &memStore{likes: map[string]bool{}}
	svc := service.NewCommentService(store, projects{"p1": {ID: "p1", AuthorID: "alice", Status: projdomain.StatusApproved}}, nil)
	h := New(svc)

	r := gin.New()
	h.RegisterPublic(r.Group("/api"))
	authed := r.Group("/api", func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(auth.CtxFirebaseUID, uid)
		}
		c.Next()
	})
	h.Register(authed)
	return r, store
}

func do(r *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCommentThread(t *testing.T) {
	r, store := setup(t)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/projects/p1/comments", "bob", `{"content":"love it"}`).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/projects/p1/comments", "alice", `{"content":"thanks","parent_id":"c1"}`).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/projects/p1/comments", "bob", `{"content":"np","parent_id":"c2"}`).Code)
	assert.Equal(t, "c1", *store.items[2].ParentID)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/projects/p1/comments", "", `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/projects/nope/comments", "bob", `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/projects/p1/comments", "bob", `{"content":""}`).Code)

	w := do(r, http.MethodGet, "/api/projects/p1/comments", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Comments []domain.Comment `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Comments, 1)
	assert.Len(t, body.Comments[0].Replies, 2)
}

func TestLikeAndDelete(t *testing.T) {
	r, _ := setup(t)
	do(r, http.MethodPost, "/api/projects/p1/comments", "bob", `{"content":"hello"}`)

	assert.JSONEq(t, `{"ok":true,"likes":1,"liked":true}`, do(r, http.MethodPost, "/api/comments/c1/like", "alice", "").Body.String())
	assert.JSONEq(t, `{"ok":true,"likes":0,"liked":false}`, do(r, http.MethodPost, "/api/comments/c1/like", "alice", "").Body.String())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/comments/zz/like", "alice", "").Code)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/comments/c1", "alice", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/comments/c1", "bob", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/comments/c1", "bob", "").Code)
}
