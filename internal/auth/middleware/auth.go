package middleware

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	"github.com/ilewa/ilewa-backend/internal/auth/domain"
)

// TouchInterval is the minimum gap between two last_seen_at writes for one user.
const TouchInterval = 5 * time.Minute

// RequireAuth validates bearer tokens and rejects requests without a valid one.
func RequireAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			apperr.Respond(c, apperr.Unauthorized("missing authorization token"))
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejected")
			apperr.Respond(c, apperr.Unauthorized("invalid token"))
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth attaches the caller identity when a valid token is present and never rejects.
func OptionalAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if id, err := verifier.Verify(c.Request.Context(), token); err == nil {
				auth.SetIdentity(c, id)
			}
		}
		c.Next()
	}
}

// UserLookup is what WithUser needs from the user store.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	TouchLastSeen(ctx context.Context, id string) error
}

// WithUser loads the stored user for an authenticated request and attaches its role.
// Callers not yet synced get the default role.
func WithUser(users UserLookup) gin.HandlerFunc {
	touches := newTouchThrottle(TouchInterval)

	return func(c *gin.Context) {
		uid := auth.UserFirebaseUID(c)
		if uid == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		u, err := users.GetByID(ctx, uid)
		switch {
		case err == nil:
			c.Set(auth.CtxRole, u.Role)
			if touches.allow(uid, time.Now()) {
				if err := users.TouchLastSeen(ctx, uid); err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", uid).Msg("failed to touch last_seen_at")
				}
			}
		case errors.Is(err, domain.ErrUserNotFound):
			c.Set(auth.CtxRole, domain.RoleUser)
		default:
			apperr.Respond(c, err)
			return
		}
		c.Next()
	}
}

// RequireRole rejects callers whose stored role differs from role. Must run after WithUser.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(auth.CtxRole) != role {
			apperr.Respond(c, apperr.Forbidden(role+" role required"))
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header.
// SSE clients cannot set headers, so access_token is accepted on stream routes.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	if strings.HasSuffix(c.FullPath(), "/stream") {
		return c.Query("access_token")
	}
	return ""
}

type touchThrottle struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time

	lastSweep time.Time
}

func newTouchThrottle(interval time.Duration) *touchThrottle {
	return &touchThrottle{interval: interval, last: make(map[string]time.Time)}
}

func (t *touchThrottle) allow(uid string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	// Entries older than interval no longer throttle anything.
	if now.Sub(t.lastSweep) >= t.interval {
		for k, prev := range t.last {
			if now.Sub(prev) >= t.interval {
				delete(t.last, k)
			}
		}
		t.lastSweep = now
	}
	if prev, ok := t.last[uid]; ok && now.Sub(prev) < t.interval {
		return false
	}
	t.last[uid] = now
	return true
}
