package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/quotes/domain"
)

type Store interface {
	Count(ctx context.Context) (int, error)
	At(ctx context.Context, idx int) (*domain.DailyQuote, error)
	List(ctx context.Context) ([]domain.DailyQuote, error)
	Create(ctx context.Context, q *domain.DailyQuote) error
}

type Cache interface {
	Get(ctx context.Context, day time.Time) (*domain.DailyQuote, bool, error)
	Set(ctx context.Context, day time.Time, q domain.DailyQuote, ttl time.Duration) error
	Delete(ctx context.Context, day time.Time) error
}

type QuoteService struct {
	repo  Store
	cache Cache
}

// NewQuoteService builds the service. cache may be nil.
func NewQuoteService(repo Store, cache Cache) *QuoteService {
	return &QuoteService{repo: repo, cache: cache}
}

// Today returns the quote for now's UTC day. Once picked it stays until midnight UTC,
// even if quotes are added during the day.
func (s *QuoteService) Today(ctx context.Context, now time.Time) domain.DailyQuote {
	log := zerolog.Ctx(ctx)
	day := domain.Day(now)

	if s.cache != nil {
		q, ok, err := s.cache.Get(ctx, day)
		if err != nil {
			log.Warn().Err(err).Msg("quote cache read failed")
		} else if ok {
			return *q
		}
	}

	q, err := s.pick(ctx, day)
	if err != nil {
		log.Error().Err(err).Msg("quote lookup failed, serving default")
		return domain.Default()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, day, q, domain.UntilMidnight(now)); err != nil {
			log.Warn().Err(err).Msg("quote cache write failed")
		}
	}
	return q
}

// Warm recomputes and caches the quote for now's day.
func (s *QuoteService) Warm(ctx context.Context, now time.Time) domain.DailyQuote {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, now); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("quote cache reset failed")
		}
	}
	return s.Today(ctx, now)
}

func (s *QuoteService) pick(ctx context.Context, day time.Time) (domain.DailyQuote, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return domain.DailyQuote{}, err
	}
	if n == 0 {
		return domain.Default(), nil
	}
	q, err := s.repo.At(ctx, domain.PickIndex(day, n))
	if err != nil {
		return domain.DailyQuote{}, err
	}
	if q == nil {
		// A quote was deleted between the two queries.
		return domain.Default(), nil
	}
	return *q, nil
}

func (s *QuoteService) List(ctx context.Context, actor authdomain.Actor) ([]domain.DailyQuote, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	return s.repo.List(ctx)
}

func (s *QuoteService) Create(ctx context.Context, actor authdomain.Actor, req domain.CreateRequest) (*domain.DailyQuote, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	q := &domain.DailyQuote{Text: req.Text, Author: req.Author, SourceURL: req.SourceURL}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("quote_id", q.ID).Str("admin_id", actor.ID).Msg("quote added")
	return q, nil
}
