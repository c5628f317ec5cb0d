package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	checkUp       = "up"
	checkDown     = "down"
	checkDisabled = "disabled"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db"`
	Redis     string    `json:"redis"`
}

// Pinger is satisfied by *pgxpool.Pool and by RedisPinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts a go-redis client to Pinger.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

type HealthHandler struct {
	serviceName string
	version     string
	db          Pinger
	redis       Pinger
	timeout     time.Duration
}

// NewHealthHandler builds the handler. A nil dependency is reported as disabled.
func NewHealthHandler(serviceName, version string, db, redis Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		redis:       redis,
		timeout:     time.Second,
	}
}

func (h *HealthHandler) check(ctx context.Context, p Pinger) string {
	if p == nil {
		return checkDisabled
	}
	pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		return checkDown
	}
	return checkUp
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	resp := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        h.check(ctx, h.db),
		Redis:     h.check(ctx, h.redis),
	}
	if resp.DB == checkDown || resp.Redis == checkDown {
		resp.Status = StatusDegraded
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
