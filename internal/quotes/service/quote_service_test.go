package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/quotes/domain"
	"github.com/ilewa/ilewa-backend/internal/quotes/repository"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) At(ctx context.Context, idx int) (*domain.DailyQuote, error) {
	args := m.Called(ctx, idx)
	if q := args.Get(0); q != nil {
		return q.(*domain.DailyQuote), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) List(ctx context.Context) ([]domain.DailyQuote, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DailyQuote), args.Error(1)
}

func (m *MockStore) Create(ctx context.Context, q *domain.DailyQuote) error {
	return m.Called(ctx, q).Error(0)
}

func newCache(t *testing.T) (*repository.QuoteCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return repository.NewQuoteCache(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestToday(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 22, 0, 0, 0, time.UTC)

	t.Run("picks by day and caches until midnight", func(t *testing.T) {
		store := new(MockStore)
		cache, mr := newCache(t)
		store.On("Count", ctx).Return(7, nil).Once()
		store.On("At", ctx, 20089%7).Return(&domain.DailyQuote{ID: "q", Text: "t", Author: "a"}, nil).Once()
		svc := NewQuoteService(store, cache)

		assert.Equal(t, "q", svc.Today(ctx, now).ID)
		assert.Equal(t, "q", svc.Today(ctx, now.Add(time.Hour)).ID, "served from cache")
		store.AssertExpectations(t)

		ttl := mr.TTL(repository.Key(now))
		assert.Equal(t, 2*time.Hour, ttl)
	})

	t.Run("empty table serves the default", func(t *testing.T) {
		store := new(MockStore)
		store.On("Count", ctx).Return(0, nil).Once()
		q := NewQuoteService(store, nil).Today(ctx, now)
		assert.Equal(t, domain.Default(), q)
	})

	t.Run("store failure serves the default uncached", func(t *testing.T) {
		store := new(MockStore)
		cache, mr := newCache(t)
		store.On("Count", ctx).Return(0, errors.New("db down")).Once()
		q := NewQuoteService(store, cache).Today(ctx, now)
		assert.Equal(t, "John Snow", q.Author)
		assert.False(t, mr.Exists(repository.Key(now)))
	})
}

func TestWarmRecomputes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	store := new(MockStore)
	cache, _ := newCache(t)
	require.NoError(t, cache.Set(ctx, now, domain.DailyQuote{ID: "stale"}, time.Hour))

	store.On("Count", ctx).Return(1, nil).Once()
	store.On("At", ctx, 0).Return(&domain.DailyQuote{ID: "fresh"}, nil).Once()

	assert.Equal(t, "fresh", NewQuoteService(store, cache).Warm(ctx, now).ID)
}

func TestAdminOperations(t *testing.T) {
	ctx := context.Background()
	admin := authdomain.Actor{ID: "root", Role: authdomain.RoleAdmin}
	user := authdomain.Actor{ID: "u", Role: authdomain.RoleUser}
	store := new(MockStore)
	store.On("List", ctx).Return([]domain.DailyQuote{{ID: "q1"}}, nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(q *domain.DailyQuote) bool {
		return q.Text == "Maps" && q.Author == "Ada"
	})).Return(nil).Once()
	svc := NewQuoteService(store, nil)

	_, err := svc.List(ctx, user)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	items, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.Create(ctx, user, domain.CreateRequest{Text: "Maps", Author: "Ada"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = svc.Create(ctx, admin, domain.CreateRequest{Text: "", Author: "Ada"})
	var vErr *apperr.ValidationError
	assert.ErrorAs(t, err, &vErr)
	_, err = svc.Create(ctx, admin, domain.CreateRequest{Text: " Maps ", Author: "Ada"})
	require.NoError(t, err)
	store.AssertExpectations(t)
}
