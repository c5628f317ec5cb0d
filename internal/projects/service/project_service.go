package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/mailer"
	"github.com/ilewa/ilewa-backend/internal/mapview"
	notifdomain "github.com/ilewa/ilewa-backend/internal/notifications/domain"
	"github.com/ilewa/ilewa-backend/internal/projects/demo"
	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

// ProjectStore is the persistence the service needs.
type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, f domain.Filter) ([]domain.Project, error)
	UpdateStatus(ctx context.Context, id, from, to string) (*domain.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

type FeedCache interface {
	Get(ctx context.Context, f domain.Filter) ([]domain.Project, bool, error)
	Set(ctx context.Context, f domain.Filter, items []domain.Project) error
	Invalidate(ctx context.Context) error
}

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message string) error
}

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*authdomain.User, error)
}

// Feed is a list of approved projects and where it came from.
type Feed struct {
	Projects []domain.Project `json:"projects"`
	Source   string           `json:"source"`
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo         ProjectStore
	catalog      *mapview.Catalog
	cache        FeedCache
	notifier     Notifier
	mail         mailer.Mailer
	users        UserDirectory
	demoFallback bool
}

type Option func(*ProjectService)

func WithFeedCache(c FeedCache) Option { return func(s *ProjectService) { s.cache = c } }

func WithNotifier(n Notifier) Option { return func(s *ProjectService) { s.notifier = n } }

// WithMailer enables moderation emails; users resolves author addresses.
func WithMailer(m mailer.Mailer, users UserDirectory) Option {
	return func(s *ProjectService) {
		s.mail = m
		s.users = users
	}
}

// WithDemoFallback toggles serving the demo dataset when the store is empty or failing.
func WithDemoFallback(enabled bool) Option {
	return func(s *ProjectService) { s.demoFallback = enabled }
}

// NewProjectService creates a new project service
func NewProjectService(repo ProjectStore, catalog *mapview.Catalog, opts ...Option) *ProjectService {
	s := &ProjectService{repo: repo, catalog: catalog, demoFallback: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates req and stores it as a pending project owned by actor.
func (s *ProjectService) Submit(ctx context.Context, actor authdomain.Actor, req domain.SubmitRequest) (*domain.Project, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("sign in to submit a project")
	}

	req.Normalize()
	if err := req.Validate(s.catalog); err != nil {
		return nil, err
	}

	p := &domain.Project{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		AuthorID:      actor.ID,
		RepositoryURL: req.RepositoryURL,
		Location:      req.Location,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		Status:        domain.StatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("project_id", p.ID).
		Str("author_id", p.AuthorID).
		Str("category", p.Category).
		Msg("project submitted")
	return p, nil
}

func canSee(p *domain.Project, actor authdomain.Actor) bool {
	return p.Status == domain.StatusApproved || actor.IsAdmin() || (actor.ID != "" && actor.ID == p.AuthorID)
}

// Get returns a project the actor is allowed to see. Hidden projects are reported as not found.
func (s *ProjectService) Get(ctx context.Context, id string, actor authdomain.Actor) (*domain.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if s.demoFallback {
			if d, ok := demo.Get(id); ok {
				return &d, nil
			}
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("project", id)
		}
		return nil, err
	}
	if !canSee(p, actor) {
		return nil, apperr.NotFound("project", id)
	}
	return p, nil
}

// MapFeed returns approved projects matching f. The demo dataset, filtered the
// same way, stands in when the store fails or holds no approved project at all.
func (s *ProjectService) MapFeed(ctx context.Context, f domain.Filter) (Feed, error) {
	log := zerolog.Ctx(ctx)
	f.Status = domain.StatusApproved
	f.AuthorID = ""

	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx, f)
		if err != nil {
			log.Warn().Err(err).Msg("map feed cache read failed")
		}
		if ok {
			return Feed{Projects: items, Source: domain.SourceLive}, nil
		}
	}

	items, err := s.repo.List(ctx, f)
	if err != nil {
		if !s.demoFallback {
			return Feed{}, err
		}
		log.Warn().Err(err).Msg("project store unavailable, serving demo data")
		return Feed{Projects: demo.Filtered(f), Source: domain.SourceDemo}, nil
	}

	if len(items) == 0 && s.demoFallback && f.Offset == 0 && s.storeIsEmpty(ctx, f) {
		return Feed{Projects: demo.Filtered(f), Source: domain.SourceDemo}, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, f, items); err != nil {
			log.Warn().Err(err).Msg("map feed cache write failed")
		}
	}
	return Feed{Projects: items, Source: domain.SourceLive}, nil
}

// storeIsEmpty reports whether no approved project exists, given that the
// query for f came back empty.
func (s *ProjectService) storeIsEmpty(ctx context.Context, f domain.Filter) bool {
	if !f.HasCriteria() {
		return true
	}
	n, err := s.repo.CountByStatus(ctx, domain.StatusApproved)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("approved project count failed, serving demo data")
		return true
	}
	return n == 0
}

// ResolveView parses URL parameters into a view and centers it on the requested
// project when the actor can see it.
func (s *ProjectService) ResolveView(ctx context.Context, q url.Values, actor authdomain.Actor) (mapview.ViewState, error) {
	v, err := mapview.ParseViewState(q, s.catalog)
	if err != nil {
		return v, err
	}
	if v.ProjectID == "" {
		return v, nil
	}

	p, err := s.Get(ctx, v.ProjectID, actor)
	switch {
	case err == nil:
		v.FocusOn(*p)
	case errors.Is(err, apperr.ErrNotFound):
		v.ProjectID = ""
	default:
		return v, err
	}
	return v, nil
}

// ListMine returns the actor's own projects in every status.
func (s *ProjectService) ListMine(ctx context.Context, actor authdomain.Actor, f domain.Filter) ([]domain.Project, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthorized("")
	}
	f.AuthorID = actor.ID
	return s.repo.List(ctx, f)
}

// ListAll is the moderation queue: every project, optionally narrowed to one status.
func (s *ProjectService) ListAll(ctx context.Context, actor authdomain.Actor, f domain.Filter) ([]domain.Project, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	if f.Status != "" && !domain.IsValidStatus(f.Status) {
		return nil, apperr.Validation("status", "must be pending, approved or rejected")
	}
	return s.repo.List(ctx, f)
}

func (s *ProjectService) Approve(ctx context.Context, actor authdomain.Actor, id string) (*domain.Project, error) {
	return s.moderate(ctx, actor, id, domain.StatusApproved)
}

func (s *ProjectService) Reject(ctx context.Context, actor authdomain.Actor, id string) (*domain.Project, error) {
	return s.moderate(ctx, actor, id, domain.StatusRejected)
}

func (s *ProjectService) moderate(ctx context.Context, actor authdomain.Actor, id, to string) (*domain.Project, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("project", id)
		}
		return nil, err
	}
	if current.Status == to {
		return nil, apperr.Conflict(fmt.Sprintf("project is already %s", to))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.Conflict("project status changed, reload and retry")
		}
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("project_id", id).
		Str("from", current.Status).
		Str("to", to).
		Str("moderator", actor.ID).
		Msg("project moderated")

	s.invalidate(ctx)
	s.notifyAuthor(ctx, updated)
	s.mailAuthor(ctx, updated)
	return updated, nil
}

// Delete removes a project. Admins may delete anything; authors only their pending submissions.
func (s *ProjectService) Delete(ctx context.Context, actor authdomain.Actor, id string) error {
	if actor.IsAnonymous() {
		return apperr.Unauthorized("")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound("project", id)
		}
		return err
	}

	if !actor.IsAdmin() {
		if p.AuthorID != actor.ID {
			return apperr.NotFound("project", id)
		}
		if p.Status != domain.StatusPending {
			return apperr.Forbidden("only pending projects can be withdrawn")
		}
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("project", id)
	}
	if p.Status == domain.StatusApproved {
		s.invalidate(ctx)
	}
	return nil
}

func (s *ProjectService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("map feed cache invalidation failed")
	}
}

func (s *ProjectService) notifyAuthor(ctx context.Context, p *domain.Project) {
	if s.notifier == nil {
		return
	}
	kind, title, msg := notifdomain.TypeProjectApproved, "Project approved",
		fmt.Sprintf("%q is now visible on the map.", p.Name)
	if p.Status == domain.StatusRejected {
		kind, title, msg = notifdomain.TypeProjectRejected, "Project rejected",
			fmt.Sprintf("%q was not approved.", p.Name)
	}
	if err := s.notifier.Notify(ctx, p.AuthorID, kind, title, msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("project_id", p.ID).Msg("failed to notify author")
	}
}

func (s *ProjectService) mailAuthor(ctx context.Context, p *domain.Project) {
	if s.mail == nil || s.users == nil {
		return
	}
	log := zerolog.Ctx(ctx)
	author, err := s.users.GetByID(ctx, p.AuthorID)
	if err != nil {
		log.Warn().Err(err).Str("author_id", p.AuthorID).Msg("cannot resolve author email")
		return
	}
	if err := s.mail.Send(ctx, mailer.ModerationMessage(author.Email, p.Name, p.Status)); err != nil {
		log.Error().Err(err).Str("project_id", p.ID).Msg("moderation email failed")
	}
}
