package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/comments/domain"
	notifdomain "github.com/ilewa/ilewa-backend/internal/notifications/domain"
	projdomain "github.com/ilewa/ilewa-backend/internal/projects/domain"
)

type Store interface {
	ListByProject(ctx context.Context, projectID string) ([]domain.Comment, error)
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) (bool, error)
	ToggleLike(ctx context.Context, commentID, userID string) (domain.LikeResult, error)
}

// ProjectReader resolves projects with the caller's visibility rules applied.
type ProjectReader interface {
	Get(ctx context.Context, id string, actor authdomain.Actor) (*projdomain.Project, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message string) error
}

type CommentService struct {
	repo     Store
	projects ProjectReader
	notifier Notifier
}

func NewCommentService(repo Store, projects ProjectReader, notifier Notifier) *CommentService {
	return &CommentService{repo: repo, projects: projects, notifier: notifier}
}

// List returns the comment tree of a project the actor can see.
func (s *CommentService) List(ctx context.Context, actor authdomain.Actor, projectID string) ([]domain.Comment, error) {
	if _, err := s.projects.Get(ctx, projectID, actor); err != nil {
		return nil, err
	}
	flat, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(flat), nil
}

// Create adds a comment. A reply to a reply is attached to the thread's root.
func (s *CommentService) Create(ctx context.Context, actor authdomain.Actor, projectID string, req domain.CreateRequest) (*domain.Comment, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("")
	}
	content, err := domain.NormalizeContent(req.Content)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, projectID, actor)
	if err != nil {
		return nil, err
	}

	c := &domain.Comment{ProjectID: project.ID, AuthorID: actor.ID, Content: content}

	var parent *domain.Comment
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err = s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperr.Validation("parent_id", "comment does not exist")
			}
			return nil, err
		}
		if parent.ProjectID != project.ID {
			return nil, apperr.Validation("parent_id", "comment belongs to another project")
		}
		root := parent.RootID()
		c.ParentID = &root
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if parent != nil {
		s.notify(ctx, parent.AuthorID, actor, notifdomain.TypeReply, "New reply",
			fmt.Sprintf("Someone replied to your comment on %q.", project.Name))
	} else {
		s.notify(ctx, project.AuthorID, actor, notifdomain.TypeComment, "New comment",
			fmt.Sprintf("Someone commented on %q.", project.Name))
	}
	return c, nil
}

// Delete removes a comment owned by the actor. Admins may delete any comment.
func (s *CommentService) Delete(ctx context.Context, actor authdomain.Actor, id string) error {
	if actor.IsAnonymous() {
		return apperr.Unauthorized("")
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != actor.ID && !actor.IsAdmin() {
		return apperr.Forbidden("only the author or an admin can delete this comment")
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("comment", id)
	}
	return nil
}

// ToggleLike likes or unlikes a comment for the actor.
func (s *CommentService) ToggleLike(ctx context.Context, actor authdomain.Actor, id string) (domain.LikeResult, error) {
	if actor.IsAnonymous() {
		return domain.LikeResult{}, apperr.Unauthorized("")
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return domain.LikeResult{}, err
	}
	res, err := s.repo.ToggleLike(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return res, apperr.NotFound("comment", id)
		}
		return res, err
	}
	if res.Liked {
		s.notify(ctx, c.AuthorID, actor, notifdomain.TypeReaction, "New like", "Someone liked your comment.")
	}
	return res, nil
}

func (s *CommentService) get(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("comment", id)
		}
		return nil, err
	}
	return c, nil
}

// notify tells recipient about actor's activity, never about their own.
func (s *CommentService) notify(ctx context.Context, recipient string, actor authdomain.Actor, kind, title, msg string) {
	if s.notifier == nil || recipient == "" || recipient == actor.ID {
		return
	}
	if err := s.notifier.Notify(ctx, recipient, kind, title, msg); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("recipient", recipient).Str("type", kind).Msg("comment notification failed")
	}
}
