package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth/domain"
)

const (
	maxFullNameLength = 120
	defaultPageSize   = 100
	maxPageSize       = 500
)

type UserStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, req domain.SyncRequest) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService struct {
	userRepo UserStore
}

func NewAuthService(userRepo UserStore) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

func notFound(id string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return apperr.NotFound("user", id)
	}
	return err
}

// GetProfile retrieves a user by auth UID
func (s *AuthService) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, notFound(uid, err)
	}
	return u, nil
}

// SyncUser creates or refreshes a user from the verified identity.
// Body values win over token claims; the email falls back to a synthetic address.
func (s *AuthService) SyncUser(ctx context.Context, id domain.Identity, req domain.SyncRequest) (*domain.User, error) {
	if id.UID == "" {
		return nil, apperr.Unauthorized("")
	}

	req.ID = id.UID
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		req.Email = id.Email
	}
	if req.Email == "" {
		req.Email = id.UID + "@users.ilewa.local"
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		req.FullName = id.Name
	}
	if utf8.RuneCountInString(req.FullName) > maxFullNameLength {
		return nil, apperr.Validation("full_name", "is too long")
	}
	if req.AvatarURL == nil && id.Picture != "" {
		req.AvatarURL = &id.Picture
	}

	u, err := s.userRepo.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("user_id", u.ID).Str("role", u.Role).Msg("user synced")
	return u, nil
}

// UpdateProfile updates the user's display fields
func (s *AuthService) UpdateProfile(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.User, error) {
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, apperr.Validation("full_name", "must not be blank")
		}
		if utf8.RuneCountInString(name) > maxFullNameLength {
			return nil, apperr.Validation("full_name", "is too long")
		}
		req.FullName = &name
	}
	if req.AvatarURL != nil {
		a := strings.TrimSpace(*req.AvatarURL)
		req.AvatarURL = &a
	}

	u, err := s.userRepo.UpdateProfile(ctx, uid, req)
	if err != nil {
		return nil, notFound(uid, err)
	}
	return u, nil
}

// ListUsers returns users newest first. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateRole changes a user's role. Admins cannot demote themselves.
func (s *AuthService) UpdateRole(ctx context.Context, actor domain.Actor, uid, role string) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin role required")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !domain.IsValidRole(role) {
		return nil, apperr.Validation("role", "must be user or admin")
	}
	if uid == actor.ID && role != domain.RoleAdmin {
		return nil, apperr.Validation("role", "admins cannot demote themselves")
	}

	u, err := s.userRepo.UpdateRole(ctx, uid, role)
	if err != nil {
		return nil, notFound(uid, err)
	}
	zerolog.Ctx(ctx).Info().Str("user_id", uid).Str("role", role).Str("by", actor.ID).Msg("role updated")
	return u, nil
}
