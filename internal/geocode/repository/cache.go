package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ilewa/ilewa-backend/internal/geocode/domain"
)

const (
	geoKeyPrefix      = "ilewa:geocode:"      // ilewa:geocode:search:{query} and ilewa:geocode:reverse:{lat},{lng}
	geoKeyIndex       = "ilewa:geocode:index" // Set of cached answer keys
	defaultGeocodeTTL = 24 * time.Hour
)

// GeoCache keeps geocoder answers in Redis so repeated lookups skip the upstream.
type GeoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGeoCache creates a GeoCache. A non-positive ttl uses the default.
func NewGeoCache(client *redis.Client, ttl time.Duration) *GeoCache {
	if ttl <= 0 {
		ttl = defaultGeocodeTTL
	}
	return &GeoCache{client: client, ttl: ttl}
}

// SearchKey expects a normalized query.
func SearchKey(query string) string {
	return geoKeyPrefix + "search:" + query
}

// ReverseKey rounds to four decimals, roughly 11 m at the equator.
func ReverseKey(lat, lng float64) string {
	return geoKeyPrefix + "reverse:" + strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lng, 'f', 4, 64)
}

func (c *GeoCache) GetSearch(ctx context.Context, query string) ([]domain.Place, bool, error) {
	var places []domain.Place
	ok, err := c.get(ctx, SearchKey(query), &places)
	return places, ok, err
}

func (c *GeoCache) SetSearch(ctx context.Context, query string, places []domain.Place) error {
	if places == nil {
		places = []domain.Place{}
	}
	return c.set(ctx, SearchKey(query), places)
}

func (c *GeoCache) GetReverse(ctx context.Context, lat, lng float64) (*domain.Place, bool, error) {
	var p domain.Place
	ok, err := c.get(ctx, ReverseKey(lat, lng), &p)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &p, true, nil
}

func (c *GeoCache) SetReverse(ctx context.Context, lat, lng float64, p domain.Place) error {
	return c.set(ctx, ReverseKey(lat, lng), p)
}

func (c *GeoCache) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read geocode answer: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal geocode answer: %w", err)
	}
	return true, nil
}

func (c *GeoCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal geocode answer: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, geoKeyIndex, key)
	pipe.Expire(ctx, geoKeyIndex, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache geocode answer: %w", err)
	}
	return nil
}
