package bootstrap

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/config"
)

// OpenRedis builds the client and pings it once. An unreachable server is
// logged, not fatal: caches fall through to Postgres and /health reports it.
func OpenRedis(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unreachable, continuing degraded")
	}
	return client
}
