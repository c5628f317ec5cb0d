package service

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/geocode/client"
	"github.com/ilewa/ilewa-backend/internal/geocode/domain"
)

type Geocoder interface {
	Search(ctx context.Context, q string) ([]domain.Place, error)
	Reverse(ctx context.Context, lat, lng float64) (*domain.Place, error)
}

type Cache interface {
	GetSearch(ctx context.Context, query string) ([]domain.Place, bool, error)
	SetSearch(ctx context.Context, query string, places []domain.Place) error
	GetReverse(ctx context.Context, lat, lng float64) (*domain.Place, bool, error)
	SetReverse(ctx context.Context, lat, lng float64, p domain.Place) error
}

// Reverse answers say where they came from so clients can tell a real
// address from the coordinate fallback.
const (
	SourceGeocoder    = "geocoder"
	SourceCoordinates = "coordinates"
)

type ReverseResult struct {
	Place  domain.Place `json:"place"`
	Source string       `json:"source"`
}

type GeocodeService struct {
	upstream Geocoder
	cache    Cache
}

// NewGeocodeService builds the service. cache may be nil.
func NewGeocodeService(upstream Geocoder, cache Cache) *GeocodeService {
	return &GeocodeService{upstream: upstream, cache: cache}
}

// Search returns places matching q. Queries shorter than
// domain.MinQueryLength answer an empty list without calling upstream.
// Upstream failures also answer an empty list and are not cached.
func (s *GeocodeService) Search(ctx context.Context, q string) ([]domain.Place, error) {
	log := zerolog.Ctx(ctx)
	query := domain.NormalizeQuery(q)
	if query == "" {
		return nil, apperr.Validation("q", "is required")
	}
	if !domain.ValidQuery(query) {
		return []domain.Place{}, nil
	}

	if s.cache != nil {
		places, ok, err := s.cache.GetSearch(ctx, query)
		if err != nil {
			log.Warn().Err(err).Msg("geocode cache read failed")
		} else if ok {
			return places, nil
		}
	}

	places, err := s.upstream.Search(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("geocode search failed")
		return []domain.Place{}, nil
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, query, places); err != nil {
			log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}
	return places, nil
}

// Reverse names the point at lat, lng. When the geocoder has no address or
// fails, the result carries the coordinates themselves as the display name.
func (s *GeocodeService) Reverse(ctx context.Context, lat, lng float64) (ReverseResult, error) {
	if err := validatePoint(lat, lng); err != nil {
		return ReverseResult{}, err
	}
	log := zerolog.Ctx(ctx)

	if s.cache != nil {
		p, ok, err := s.cache.GetReverse(ctx, lat, lng)
		if err != nil {
			log.Warn().Err(err).Msg("geocode cache read failed")
		} else if ok {
			return ReverseResult{Place: *p, Source: SourceGeocoder}, nil
		}
	}

	fallback := ReverseResult{
		Place:  domain.Place{DisplayName: domain.CoordinateLabel(lat, lng), Lat: lat, Lng: lng},
		Source: SourceCoordinates,
	}

	p, err := s.upstream.Reverse(ctx, lat, lng)
	if errors.Is(err, client.ErrNoResult) {
		return fallback, nil
	}
	if err != nil {
		log.Error().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("reverse geocode failed")
		return fallback, nil
	}
	if p.DisplayName == "" {
		p.DisplayName = fallback.Place.DisplayName
	}

	if s.cache != nil {
		if err := s.cache.SetReverse(ctx, lat, lng, *p); err != nil {
			log.Warn().Err(err).Msg("geocode cache write failed")
		}
	}
	return ReverseResult{Place: *p, Source: SourceGeocoder}, nil
}

func validatePoint(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return apperr.Validation("lat", "must be between -90 and 90")
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return apperr.Validation("lng", "must be between -180 and 180")
	}
	return nil
}
