package routes

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/api/http/middleware"
	"github.com/ilewa/ilewa-backend/internal/auth"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	authhttp "github.com/ilewa/ilewa-backend/internal/auth/http"
	authmw "github.com/ilewa/ilewa-backend/internal/auth/middleware"
	authservice "github.com/ilewa/ilewa-backend/internal/auth/service"
	commenthttp "github.com/ilewa/ilewa-backend/internal/comments/http"
	commentservice "github.com/ilewa/ilewa-backend/internal/comments/service"
	dashhttp "github.com/ilewa/ilewa-backend/internal/dashboard/http"
	dashservice "github.com/ilewa/ilewa-backend/internal/dashboard/service"
	"github.com/ilewa/ilewa-backend/internal/events"
	geohttp "github.com/ilewa/ilewa-backend/internal/geocode/http"
	geoservice "github.com/ilewa/ilewa-backend/internal/geocode/service"
	"github.com/ilewa/ilewa-backend/internal/mapview"
	msghttp "github.com/ilewa/ilewa-backend/internal/messages/http"
	msgservice "github.com/ilewa/ilewa-backend/internal/messages/service"
	notifhttp "github.com/ilewa/ilewa-backend/internal/notifications/http"
	notifservice "github.com/ilewa/ilewa-backend/internal/notifications/service"
	projecthttp "github.com/ilewa/ilewa-backend/internal/projects/http"
	projectservice "github.com/ilewa/ilewa-backend/internal/projects/service"
	quotehttp "github.com/ilewa/ilewa-backend/internal/quotes/http"
	quoteservice "github.com/ilewa/ilewa-backend/internal/quotes/service"
)

// EventSource opens a user's realtime feed for the SSE routes.
type EventSource interface {
	Subscribe(ctx context.Context, userID string) (<-chan events.Event, func(), error)
}

type V1Deps struct {
	Verifier      auth.Verifier
	Users         authmw.UserLookup
	Catalog       *mapview.Catalog
	ClusterCellPx int
	Limiter       *middleware.RateLimiter
	Events        EventSource

	Auth          *authservice.AuthService
	Projects      *projectservice.ProjectService
	Comments      *commentservice.CommentService
	Notifications *notifservice.NotificationService
	Messages      *msgservice.MessageService
	Quotes        *quoteservice.QuoteService
	Dashboard     *dashservice.DashboardService
	Geocode       *geoservice.GeocodeService
}

// RegisterV1 mounts /api/v1. Public routes accept an optional token, the
// rest require one, and /admin additionally requires the admin role.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	var write []gin.HandlerFunc
	if dep.Limiter != nil {
		write = append(write, dep.Limiter.Middleware())
	}

	projects := projecthttp.New(dep.Projects, dep.Catalog, dep.ClusterCellPx)
	comments := commenthttp.New(dep.Comments)
	quotes := quotehttp.New(dep.Quotes)
	users := authhttp.New(dep.Auth)

	public := api.Group("", authmw.OptionalAuth(dep.Verifier), authmw.WithUser(dep.Users))
	projects.RegisterPublic(public)
	comments.RegisterPublic(public)
	quotes.Register(public.Group("/quotes"))
	if dep.Geocode != nil {
		geohttp.New(dep.Geocode).Register(public.Group("/geocode"))
	}

	authed := api.Group("", authmw.RequireAuth(dep.Verifier), authmw.WithUser(dep.Users))
	users.Register(authed.Group("/auth"))
	projects.Register(authed, write...)
	comments.Register(authed, write...)
	notifhttp.New(dep.Notifications, dep.Events).Register(authed.Group("/notifications"))
	msghttp.New(dep.Messages, dep.Events).Register(authed.Group("/messages"), write...)
	dashhttp.New(dep.Dashboard).Register(authed.Group("/dashboard"))

	admin := authed.Group("/admin", authmw.RequireRole(authdomain.RoleAdmin))
	projects.RegisterAdmin(admin)
	users.RegisterAdmin(admin)
	quotes.RegisterAdmin(admin.Group("/quotes"))
}
