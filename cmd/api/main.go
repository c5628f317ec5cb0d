package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ilewa/ilewa-backend/config"
	"github.com/ilewa/ilewa-backend/internal/bootstrap"
	"github.com/ilewa/ilewa-backend/internal/logging"
	"github.com/ilewa/ilewa-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.Setup(cfg.App.LogLevel, cfg.App.Environment)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      postgres.DSN(&cfg.Database),
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db pool")
	}
	defer pool.Close()

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer sqlDB.Close()

	rdb := bootstrap.OpenRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	verifier, err := bootstrap.NewVerifier(ctx, &cfg.Auth)
	if err != nil {
		logger.Fatal().Err(err).Str("mode", cfg.Auth.Mode).Msg("failed to init auth")
	}

	mail, err := bootstrap.NewMailer(ctx, cfg.Mail)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init mailer")
	}

	services := bootstrap.NewServices(bootstrap.ServiceDeps{
		Config: cfg,
		SQL:    sqlDB,
		Redis:  rdb,
		Mailer: mail,
	})

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   cfg.App.ServiceName,
		Version:       cfg.App.Version,
		CORSOrigins:   cfg.Server.CORSOrigins,
		ClusterCellPx: cfg.Map.ClusterCellPx,
		Limits: bootstrap.LimitOptions{
			WritesPerMinute: cfg.Limits.WritesPerMinute,
			WriteBurst:      cfg.Limits.WriteBurst,
		},
		DB:       pool,
		Redis:    rdb,
		Verifier: verifier,
		Services: services,
		Log:      logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Server.Port).
			Str("auth_mode", cfg.Auth.Mode).
			Str("version", cfg.App.Version).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
