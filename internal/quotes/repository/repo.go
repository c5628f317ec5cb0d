package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ilewa/ilewa-backend/internal/quotes/domain"
)

type QuoteRepository struct {
	db *sql.DB
}

func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

const quoteColumns = `id, text, author, source_url, created_at`

func scanQuote(row interface{ Scan(...interface{}) error }) (*domain.DailyQuote, error) {
	var (
		q   domain.DailyQuote
		src sql.NullString
	)
	if err := row.Scan(&q.ID, &q.Text, &q.Author, &src, &q.CreatedAt); err != nil {
		return nil, err
	}
	if src.Valid {
		q.SourceURL = &src.String
	}
	return &q, nil
}

func (r *QuoteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_quotes;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quotes: %w", err)
	}
	return n, nil
}

// At returns the quote at position idx in (created_at, id) order, or nil past the end.
func (r *QuoteRepository) At(ctx context.Context, idx int) (*domain.DailyQuote, error) {
	q, err := scanQuote(r.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM daily_quotes ORDER BY created_at, id OFFSET $1 LIMIT 1;`, idx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

func (r *QuoteRepository) List(ctx context.Context) ([]domain.DailyQuote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+quoteColumns+` FROM daily_quotes ORDER BY created_at, id;`)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DailyQuote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *QuoteRepository) Create(ctx context.Context, q *domain.DailyQuote) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	var src interface{}
	if q.SourceURL != nil {
		src = *q.SourceURL
	}
	err := r.db.QueryRowContext(ctx, `
INSERT INTO daily_quotes (id, text, author, source_url)
VALUES ($1, $2, $3, $4)
RETURNING created_at;`, q.ID, q.Text, q.Author, src).Scan(&q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}
