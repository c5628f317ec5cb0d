package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
p.id, p.name, p.description, p.category, p.author_id,
COALESCE(NULLIF(u.full_name, ''), u.email, '') AS author_name,
p.repository_url, p.location, p.latitude, p.longitude, p.status, p.created_at, p.updated_at`

const projectFrom = `
FROM projects p
LEFT JOIN users u ON u.id = p.author_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.AuthorID, &p.AuthorName,
		&p.RepositoryURL, &p.Location, &p.Latitude, &p.Longitude, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts p. ID, CreatedAt and UpdatedAt are filled in.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	const q = `
INSERT INTO projects (id, name, description, category, author_id, repository_url, location, latitude, longitude, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Description, p.Category, p.AuthorID,
		p.RepositoryURL, p.Location, p.Latitude, p.Longitude, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return apperr.Validation("author_id", "user is not registered")
		}
		if apperr.IsUniqueViolation(err) {
			return apperr.Conflict("project already exists")
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID returns the project with the author name joined.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	q := `SELECT ` + projectColumns + projectFrom + ` WHERE p.id = $1;`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// buildWhere renders f as a WHERE clause with positional arguments.
func buildWhere(f domain.Filter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if c := f.NormalizedCategory(); c != "" {
		add("p.category = $%d", c)
	}
	if f.Status != "" {
		add("p.status = $%d", f.Status)
	}
	if f.AuthorID != "" {
		add("p.author_id = $%d", f.AuthorID)
	}
	if f.From != nil {
		add("p.created_at >= $%d", *f.From)
	}
	if end := f.ToExclusive(); end != nil {
		add("p.created_at < $%d", *end)
	}
	if b := f.BBox; b != nil {
		add("p.latitude >= $%d", b.MinLat)
		add("p.latitude <= $%d", b.MaxLat)
		if b.MinLng <= b.MaxLng {
			add("p.longitude >= $%d", b.MinLng)
			add("p.longitude <= $%d", b.MaxLng)
		} else {
			args = append(args, b.MinLng, b.MaxLng)
			conds = append(conds, fmt.Sprintf("(p.longitude >= $%d OR p.longitude <= $%d)", len(args)-1, len(args)))
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns projects matching f, newest first.
func (r *ProjectRepository) List(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	where, args := buildWhere(f)
	args = append(args, f.EffectiveLimit(), f.Offset)
	q := `SELECT ` + projectColumns + projectFrom + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC, p.id LIMIT $%d OFFSET $%d;", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a project from status `from` to `to`. It returns
// domain.ErrNotFound when no row is in the expected state.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id, from, to string) (*domain.Project, error) {
	const q = `
UPDATE projects
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING updated_at;
`
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, q, id, from, to).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project status: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a project; comments cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stats counts projects by status and category.
func (r *ProjectRepository) Stats(ctx context.Context) (domain.Stats, error) {
	st := domain.Stats{Categories: map[string]int{}}

	const totals = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE status = 'approved'),
  COUNT(*) FILTER (WHERE status = 'pending'),
  COUNT(*) FILTER (WHERE status = 'rejected')
FROM projects;
`
	if err := r.db.QueryRowContext(ctx, totals).
		Scan(&st.TotalProjects, &st.ApprovedProjects, &st.PendingProjects, &st.RejectedProjects); err != nil {
		return st, fmt.Errorf("project totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM projects GROUP BY category;`)
	if err != nil {
		return st, fmt.Errorf("project categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cat string
			n   int
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return st, err
		}
		st.Categories[cat] = n
	}
	return st, rows.Err()
}

// CountByAuthor counts every project submitted by authorID.
func (r *ProjectRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE author_id = $1;`, authorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count author projects: %w", err)
	}
	return n, nil
}

// CountByStatus counts projects in one status.
func (r *ProjectRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE status = $1;`, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count projects by status: %w", err)
	}
	return n, nil
}

// MonthlySubmissions counts submissions per calendar month since `since`, keyed "YYYY-MM".
func (r *ProjectRepository) MonthlySubmissions(ctx context.Context, since time.Time) (map[string]int, error) {
	const q = `
SELECT to_char(date_trunc('month', created_at AT TIME ZONE 'UTC'), 'YYYY-MM') AS month, COUNT(*)
FROM projects
WHERE created_at >= $1
GROUP BY month;
`
	rows, err := r.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("monthly submissions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			month string
			n     int
		)
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}
		out[month] = n
	}
	return out, rows.Err()
}
