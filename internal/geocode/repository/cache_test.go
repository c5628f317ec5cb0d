package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/internal/geocode/domain"
)

func setupGeoCache(t *testing.T) (*GeoCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewGeoCache(client, time.Hour), mr
}

func TestGeoCache_Search(t *testing.T) {
	cache, mr := setupGeoCache(t)
	ctx := context.Background()

	_, ok, err := cache.GetSearch(ctx, "lome")
	require.NoError(t, err)
	assert.False(t, ok)

	places := []domain.Place{{DisplayName: "Lomé, Togo", Lat: 6.13, Lng: 1.22}}
	require.NoError(t, cache.SetSearch(ctx, "lome", places))

	got, ok, err := cache.GetSearch(ctx, "lome")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, places, got)

	assert.True(t, mr.Exists("ilewa:geocode:search:lome"))
	assert.Equal(t, time.Hour, mr.TTL("ilewa:geocode:search:lome"))
	members, err := mr.SMembers(geoKeyIndex)
	require.NoError(t, err)
	assert.Equal(t, []string{"ilewa:geocode:search:lome"}, members)
}

func TestGeoCache_EmptySearchIsAHit(t *testing.T) {
	cache, _ := setupGeoCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetSearch(ctx, "nowhere", nil))
	got, ok, err := cache.GetSearch(ctx, "nowhere")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestGeoCache_ReverseRoundsCoordinates(t *testing.T) {
	cache, _ := setupGeoCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetReverse(ctx, 6.370291, 2.391182, domain.Place{DisplayName: "Cotonou", Lat: 6.37, Lng: 2.39}))

	got, ok, err := cache.GetReverse(ctx, 6.37031, 2.39121)
	require.NoError(t, err)
	require.True(t, ok, "same four-decimal cell")
	assert.Equal(t, "Cotonou", got.DisplayName)

	_, ok, err = cache.GetReverse(ctx, 6.3710, 2.3912)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeoCache_Errors(t *testing.T) {
	cache, mr := setupGeoCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(SearchKey("bad"), "{not json"))
	_, _, err := cache.GetSearch(ctx, "bad")
	assert.Error(t, err)

	mr.Close()
	_, _, err = cache.GetReverse(ctx, 1, 2)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "ilewa:geocode:search:porto novo", SearchKey("porto novo"))
	assert.Equal(t, "ilewa:geocode:reverse:6.3703,-2.0000", ReverseKey(6.37029, -2))
}
