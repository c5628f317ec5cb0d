package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/auth/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxIdentity    = "identity"
	CtxRole        = "role"
)

// UserFirebaseUID extracts the auth UID from the Gin context.
// This is set by RequireAuth and OptionalAuth.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// IdentityFrom returns the verified identity, if any.
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil, false
	}
	id, ok := v.(*domain.Identity)
	return id, ok
}

// ActorFrom builds the service-level caller from the request context.
// The role is only present once WithUser has run.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		ID:   UserFirebaseUID(c),
		Role: c.GetString(CtxRole),
	}
}

// SetIdentity stores a verified identity on the request.
func SetIdentity(c *gin.Context, id *domain.Identity) {
	c.Set(CtxFirebaseUID, id.UID)
	if id.Email != "" {
		c.Set(CtxEmail, id.Email)
	}
	c.Set(CtxIdentity, id)
}
