package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpapi "github.com/ilewa/ilewa-backend/internal/api/http"
	"github.com/ilewa/ilewa-backend/internal/api/http/middleware"
	"github.com/ilewa/ilewa-backend/internal/api/http/routes"
	"github.com/ilewa/ilewa-backend/internal/auth"
)

type RouterDeps struct {
	ServiceName   string
	Version       string
	CORSOrigins   []string
	ClusterCellPx int
	Limits        LimitOptions
	DB            *pgxpool.Pool
	Redis         *redis.Client
	Verifier      auth.Verifier
	Services      *Services
	Log           zerolog.Logger
}

type LimitOptions struct {
	WritesPerMinute int
	WriteBurst      int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "X-Data-Source", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var db, cache httpapi.Pinger
	if dep.DB != nil {
		db = dep.DB
	}
	if dep.Redis != nil {
		cache = httpapi.RedisPinger{Client: dep.Redis}
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, db, cache).RegisterRoutes(r)

	s := dep.Services
	routes.RegisterV1(r, routes.V1Deps{
		Verifier:      dep.Verifier,
		Users:         s.Users,
		Catalog:       s.Catalog,
		ClusterCellPx: dep.ClusterCellPx,
		Limiter:       middleware.NewRateLimiter(dep.Limits.WritesPerMinute, dep.Limits.WriteBurst),
		Events:        s.Bus,
		Auth:          s.Auth,
		Projects:      s.Project,
		Comments:      s.Comments,
		Notifications: s.Notifications,
		Messages:      s.Messages,
		Quotes:        s.Quotes,
		Dashboard:     s.Dashboard,
		Geocode:       s.Geocode,
	})

	return r
}
