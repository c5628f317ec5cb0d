package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/internal/auth"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/quotes/domain"
	"github.com/ilewa/ilewa-backend/internal/quotes/service"
)

type memStore struct {
	items []domain.DailyQuote
}

func (m *memStore) Count(context.Context) (int, error) { return len(m.items), nil }

func (m *memStore) At(_ context.Context, idx int) (*domain.DailyQuote, error) {
	if idx >= len(m.items) {
		return nil, nil
	}
	q := m.items[idx]
	return &q, nil
}

func (m *memStore) List(context.Context) ([]domain.DailyQuote, error) { return m.items, nil }

func (m *memStore) Create(_ context.Context, q *domain.DailyQuote) error {
	q.ID = "q" + string(rune('a'+len(m.items)))
	m.items = append(m.items, *q)
	return nil
}

func setup(role string) (*gin.Engine, *memStore) {
	gin.SetMode(gin.TestMode)
	store := &memStore{items: []domain.DailyQuote{}}
	h := New(service.NewQuoteService(store, nil))
	h.now = func() time.Time { return time.Date(1970, 1, 2, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	h.Register(r.Group("/quotes"))
	h.RegisterAdmin(r.Group("/admin/quotes", func(c *gin.Context) {
		c.Set(auth.CtxFirebaseUID, "someone")
		c.Set(auth.CtxRole, role)
		c.Next()
	}))
	return r, store
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestTodayDefaultsThenRotates(t *testing.T) {
	r, _ := setup(authdomain.RoleAdmin)

	var resp struct {
		Quote domain.DailyQuote `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, "/quotes/today", "").Body.Bytes(), &resp))
	assert.Equal(t, "John Snow", resp.Quote.Author)

	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/admin/quotes", `{"text":"one","author":"A"}`).Code)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/admin/quotes", `{"text":"two","author":"B"}`).Code)

	// Day 1 since the epoch, two quotes: index 1.
	require.NoError(t, json.Unmarshal(do(r, http.MethodGet, "/quotes/today", "").Body.Bytes(), &resp))
	assert.Equal(t, "two", resp.Quote.Text)
}

func TestAdminQuotesRequireAdmin(t *testing.T) {
	r, _ := setup(authdomain.RoleUser)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin/quotes", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/admin/quotes", `{"text":"x","author":"y"}`).Code)

	r, _ = setup(authdomain.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/admin/quotes", `{"text":"","author":"y"}`).Code)
	assert.JSONEq(t, `{"ok":true,"quotes":[]}`, do(r, http.MethodGet, "/admin/quotes", "").Body.String())
}
