package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, avatar_url, role, created_at, last_seen_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		avatarURL sql.NullString
		lastSeen  sql.NullTime
	)
	if err := row.Scan(&user.ID, &user.Email, &user.FullName, &avatarURL, &user.Role, &user.CreatedAt, &lastSeen); err != nil {
		return nil, err
	}

	// Handle nullable fields
	if avatarURL.Valid {
		user.AvatarURL = &avatarURL.String
	}
	if lastSeen.Valid {
		user.LastSeenAt = &lastSeen.Time
	}
	return &user, nil
}

func oneUser(row *sql.Row) (*domain.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

// GetByID retrieves a user by their auth UID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := oneUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, err
}

// Upsert creates or refreshes a user after sign-in. The stored role is never
// changed here; blank names and missing avatars keep their previous values.
func (r *UserRepository) Upsert(ctx context.Context, req domain.SyncRequest) (*domain.User, error) {
	q := `
		INSERT INTO users (id, email, full_name, avatar_url, role, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    full_name = CASE WHEN EXCLUDED.full_name <> '' THEN EXCLUDED.full_name ELSE users.full_name END,
		    avatar_url = COALESCE(EXCLUDED.avatar_url, users.avatar_url),
		    last_seen_at = NOW()
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, q, req.ID, req.Email, req.FullName, req.AvatarURL, domain.RoleUser))
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("email already exists")
		}
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes the fields set in req.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) (*domain.User, error) {
	q := `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    avatar_url = COALESCE($3, avatar_url)
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := oneUser(r.db.QueryRowContext(ctx, q, id, req.FullName, req.AvatarURL))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, err
}

// UpdateRole sets the role of a user.
func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	q := `UPDATE users SET role = $2 WHERE id = $1 RETURNING ` + userColumns
	u, err := oneUser(r.db.QueryRowContext(ctx, q, id, role))
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("update role: %w", err)
	}
	return u, err
}

// List returns users, newest first.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	return r.list(ctx, q, limit, offset)
}

// ListAdmins returns every admin.
func (r *UserRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at`
	return r.list(ctx, q, domain.RoleAdmin)
}

func (r *UserRepository) list(ctx context.Context, q string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Count returns the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// TouchLastSeen updates the last seen timestamp
func (r *UserRepository) TouchLastSeen(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
