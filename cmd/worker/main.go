package main

import (
	"context"
	"database/sql"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ilewa/ilewa-backend/config"
	"github.com/ilewa/ilewa-backend/internal/bootstrap"
	"github.com/ilewa/ilewa-backend/internal/logging"
	"github.com/ilewa/ilewa-backend/internal/mailer"
	"github.com/ilewa/ilewa-backend/internal/storage/postgres"
)

// env is what every subcommand shares.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *sql.DB
	redis  *redis.Client
	closer func()
}

func load(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(cfg.App.LogLevel, cfg.App.Environment)

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger, db: db, closer: func() { db.Close() }}, nil
}

// services connects Redis and wires the application graph.
func (e *env) services(ctx context.Context) *bootstrap.Services {
	e.redis = bootstrap.OpenRedis(ctx, e.cfg.Redis, e.log)
	prev := e.closer
	e.closer = func() {
		_ = e.redis.Close()
		prev()
	}
	return bootstrap.NewServices(bootstrap.ServiceDeps{
		Config: e.cfg,
		SQL:    e.db,
		Redis:  e.redis,
		Mailer: mailer.Noop{},
	})
}

func (e *env) Close() { e.closer() }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Background jobs and maintenance tasks for the ILEWA backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newMigrateCmd(), newRotateQuoteCmd(), newSeedDemoCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("worker failed")
		os.Exit(1)
	}
}
