package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/comments/domain"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentSelect = `
SELECT c.id, c.project_id, c.author_id,
       COALESCE(NULLIF(u.full_name, ''), u.email, '') AS author_name,
       c.content, c.parent_id, c.likes, c.created_at
FROM comments c
LEFT JOIN users u ON u.id = c.author_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	var (
		c      domain.Comment
		parent sql.NullString
	)
	if err := row.Scan(&c.ID, &c.ProjectID, &c.AuthorID, &c.AuthorName, &c.Content, &parent, &c.Likes, &c.CreatedAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.String
	}
	return &c, nil
}

// ListByProject returns every comment on a project as a flat list, oldest first.
func (r *CommentRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Comment, error) {
	if _, err := uuid.Parse(projectID); err != nil {
		return []domain.Comment{}, nil
	}
	rows, err := r.db.QueryContext(ctx, commentSelect+` WHERE c.project_id = $1 ORDER BY c.created_at, c.id;`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1;`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	const q = `
INSERT INTO comments (id, project_id, author_id, content, parent_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING likes, created_at;
`
	var parent interface{}
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	err := r.db.QueryRowContext(ctx, q, c.ID, c.ProjectID, c.AuthorID, c.Content, parent).Scan(&c.Likes, &c.CreatedAt)
	if err != nil {
		if apperr.IsForeignKeyViolation(err) {
			return apperr.Validation("project_id", "project or author does not exist")
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// Delete removes a comment; replies cascade.
func (r *CommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ToggleLike adds the user's like to a comment or removes it if present.
// The comment row is locked so the counter matches comment_likes.
func (r *CommentRepository) ToggleLike(ctx context.Context, commentID, userID string) (domain.LikeResult, error) {
	var res domain.LikeResult
	if _, err := uuid.Parse(commentID); err != nil {
		return res, domain.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin like tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := tx.QueryRowContext(ctx, `SELECT likes FROM comments WHERE id = $1 FOR UPDATE;`, commentID).Scan(&res.Likes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, domain.ErrNotFound
		}
		return res, fmt.Errorf("lock comment: %w", err)
	}

	del, err := tx.ExecContext(ctx, `DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2;`, commentID, userID)
	if err != nil {
		return res, fmt.Errorf("remove like: %w", err)
	}
	removed, err := del.RowsAffected()
	if err != nil {
		return res, err
	}

	delta := -1
	if removed == 0 {
		if _, err := tx.ExecContext(ctx, `INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2);`, commentID, userID); err != nil {
			if apperr.IsForeignKeyViolation(err) {
				return res, apperr.Validation("user_id", "user is not registered")
			}
			return res, fmt.Errorf("add like: %w", err)
		}
		delta = 1
		res.Liked = true
	}

	err = tx.QueryRowContext(ctx, `UPDATE comments SET likes = GREATEST(likes + $2, 0) WHERE id = $1 RETURNING likes;`, commentID, delta).Scan(&res.Likes)
	if err != nil {
		return res, fmt.Errorf("update like count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit like: %w", err)
	}
	return res, nil
}
