package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

// Seeder writes fixture data straight through the pgx pool.
type Seeder struct {
	db *pgxpool.Pool
}

func NewSeeder(db *pgxpool.Pool) *Seeder {
	return &Seeder{db: db}
}

type User struct {
	ID       string
	Email    string
	FullName string
}

// EnsureUser inserts u unless a user with the same id already exists.
func (s *Seeder) EnsureUser(ctx context.Context, u User) error {
	if u.ID == "" {
		return fmt.Errorf("user id required")
	}
	if u.Email == "" {
		u.Email = u.ID + "@users.ilewa.local"
	}

	const q = `
insert into users (id, email, full_name, role)
values ($1, $2, $3, $4)
on conflict (id) do nothing;
`
	if _, err := s.db.Exec(ctx, q, u.ID, u.Email, u.FullName, authdomain.RoleUser); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// ProjectID maps a fixture id such as "mock-3" to a stable uuid.
func ProjectID(fixtureID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ilewa:project:"+fixtureID)).String()
}

// Projects inserts items in one batch and returns how many rows were new.
// Reseeding is a no-op.
func (s *Seeder) Projects(ctx context.Context, items []domain.Project) (int, error) {
	const q = `
insert into projects (id, name, description, category, author_id, repository_url,
                      location, latitude, longitude, status, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
on conflict (id) do nothing;
`
	batch := &pgx.Batch{}
	for _, p := range items {
		batch.Queue(q, ProjectID(p.ID), p.Name, p.Description, p.Category, p.AuthorID,
			p.RepositoryURL, p.Location, p.Latitude, p.Longitude, p.Status, p.CreatedAt, p.UpdatedAt)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range items {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("seed project: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
