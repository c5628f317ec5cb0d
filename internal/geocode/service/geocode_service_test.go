package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/geocode/client"
	"github.com/ilewa/ilewa-backend/internal/geocode/domain"
	"github.com/ilewa/ilewa-backend/internal/geocode/repository"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Search(ctx context.Context, q string) ([]domain.Place, error) {
	args := m.Called(ctx, q)
	places, _ := args.Get(0).([]domain.Place)
	return places, args.Error(1)
}

func (m *MockGeocoder) Reverse(ctx context.Context, lat, lng float64) (*domain.Place, error) {
	args := m.Called(ctx, lat, lng)
	p, _ := args.Get(0).(*domain.Place)
	return p, args.Error(1)
}

func newCache(t *testing.T) (*repository.GeoCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return repository.NewGeoCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour), mr
}

func TestSearchThroughCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "porto-novo", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[{"lat":"6.4969","lon":"2.6289","display_name":"Porto-Novo, Ouémé, Bénin"}]`))
	}))
	defer srv.Close()

	cache, mr := newCache(t)
	svc := NewGeocodeService(client.NewNominatim(client.Config{BaseURL: srv.URL, Interval: time.Millisecond}), cache)
	ctx := context.Background()

	first, err := svc.Search(ctx, "  Porto-Novo ")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Porto-Novo, Ouémé, Bénin", first[0].DisplayName)
	assert.True(t, mr.Exists(repository.SearchKey("porto-novo")))

	second, err := svc.Search(ctx, "PORTO-NOVO")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "second lookup served from redis")
}

func TestSearchEdges(t *testing.T) {
	ctx := context.Background()

	t.Run("blank query", func(t *testing.T) {
		up := new(MockGeocoder)
		_, err := NewGeocodeService(up, nil).Search(ctx, "   ")
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "q", ve.Field)
		up.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("short query skips upstream", func(t *testing.T) {
		up := new(MockGeocoder)
		places, err := NewGeocodeService(up, nil).Search(ctx, "lo")
		require.NoError(t, err)
		assert.Empty(t, places)
		assert.NotNil(t, places)
		up.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure answers empty and is not cached", func(t *testing.T) {
		up := new(MockGeocoder)
		cache, mr := newCache(t)
		up.On("Search", ctx, "lome").Return(nil, errors.New("geocoder http 503")).Once()

		places, err := NewGeocodeService(up, cache).Search(ctx, "Lome")
		require.NoError(t, err)
		assert.Empty(t, places)
		assert.False(t, mr.Exists(repository.SearchKey("lome")))
		up.AssertExpectations(t)
	})

	t.Run("cache outage still answers", func(t *testing.T) {
		up := new(MockGeocoder)
		cache, mr := newCache(t)
		mr.Close()
		up.On("Search", ctx, "lome").Return([]domain.Place{{DisplayName: "Lomé"}}, nil).Once()

		places, err := NewGeocodeService(up, cache).Search(ctx, "lome")
		require.NoError(t, err)
		assert.Len(t, places, 1)
	})
}

func TestReverse(t *testing.T) {
	ctx := context.Background()

	t.Run("address is cached", func(t *testing.T) {
		up := new(MockGeocoder)
		cache, _ := newCache(t)
		up.On("Reverse", ctx, 6.37, 2.39).Return(&domain.Place{DisplayName: "Cotonou, Bénin", Lat: 6.37, Lng: 2.39}, nil).Once()
		svc := NewGeocodeService(up, cache)

		res, err := svc.Reverse(ctx, 6.37, 2.39)
		require.NoError(t, err)
		assert.Equal(t, SourceGeocoder, res.Source)
		assert.Equal(t, "Cotonou, Bénin", res.Place.DisplayName)

		res, err = svc.Reverse(ctx, 6.37, 2.39)
		require.NoError(t, err)
		assert.Equal(t, "Cotonou, Bénin", res.Place.DisplayName)
		up.AssertExpectations(t)
	})

	t.Run("no address falls back to coordinates", func(t *testing.T) {
		up := new(MockGeocoder)
		cache, mr := newCache(t)
		up.On("Reverse", ctx, 0.5, -160.25).Return(nil, client.ErrNoResult).Once()

		res, err := NewGeocodeService(up, cache).Reverse(ctx, 0.5, -160.25)
		require.NoError(t, err)
		assert.Equal(t, SourceCoordinates, res.Source)
		assert.Equal(t, "0.5000, -160.2500", res.Place.DisplayName)
		assert.Empty(t, mr.Keys())
	})

	t.Run("upstream failure falls back to coordinates", func(t *testing.T) {
		up := new(MockGeocoder)
		up.On("Reverse", ctx, 12.65, -8.0).Return(nil, errors.New("timeout")).Once()

		res, err := NewGeocodeService(up, nil).Reverse(ctx, 12.65, -8.0)
		require.NoError(t, err)
		assert.Equal(t, SourceCoordinates, res.Source)
		assert.Equal(t, "12.6500, -8.0000", res.Place.DisplayName)
	})

	t.Run("invalid points", func(t *testing.T) {
		up := new(MockGeocoder)
		svc := NewGeocodeService(up, nil)
		for _, pt := range [][2]float64{{91, 0}, {0, -181}, {math.NaN(), 0}, {0, math.Inf(1)}} {
			_, err := svc.Reverse(ctx, pt[0], pt[1])
			var ve *apperr.ValidationError
			assert.ErrorAs(t, err, &ve, "%v", pt)
		}
		up.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything)
	})
}
