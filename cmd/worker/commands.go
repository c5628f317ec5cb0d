package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ilewa/ilewa-backend/internal/bootstrap"
	"github.com/ilewa/ilewa-backend/internal/db"
	"github.com/ilewa/ilewa-backend/internal/projects/demo"
	projdomain "github.com/ilewa/ilewa-backend/internal/projects/domain"
	cronjob "github.com/ilewa/ilewa-backend/internal/quotes/cron"
	"github.com/ilewa/ilewa-backend/internal/seed"
	"github.com/ilewa/ilewa-backend/internal/storage/postgres"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduled jobs until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := load(ctx)
			if err != nil {
				return err
			}
			defer e.Close()
			s := e.services(ctx)

			sched := cronjob.NewScheduler(cronjob.Jobs{
				Quotes:   s.Quotes,
				Projects: s.Projects,
				Admins:   s.Users,
				Notifier: s.Notifications,
			}, e.log)
			if err := sched.Start(); err != nil {
				return err
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			e.log.Info().Msg("stopping scheduler")
			stopped := sched.Stop()
			select {
			case <-stopped.Done():
			case <-time.After(e.cfg.Server.ShutdownTimeout):
				e.log.Warn().Msg("jobs still running at shutdown")
			}
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := load(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := db.Migrate(ctx, e.db); err != nil {
				return err
			}
			v, err := db.Version(ctx, e.db)
			if err != nil {
				return err
			}
			e.log.Info().Int64("version", v).Msg("database migrated")
			return nil
		},
	}
}

func newRotateQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-quote",
		Short: "Recompute and cache today's quote",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := load(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			q := e.services(ctx).Quotes.Warm(ctx, time.Now())
			e.log.Info().Str("quote_id", q.ID).Str("author", q.Author).Msg("quote of the day cached")
			return nil
		},
	}
}

func newSeedDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Insert the demo projects as approved rows owned by " + demo.AuthorID,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := load(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			pool, err := openPool(ctx, e)
			if err != nil {
				return err
			}
			defer pool.Close()

			s := seed.NewSeeder(pool)
			if err := s.EnsureUser(ctx, seed.User{ID: demo.AuthorID, FullName: "Demo"}); err != nil {
				return err
			}

			items := demo.Projects()
			for i := range items {
				items[i].AuthorID = demo.AuthorID
				items[i].Status = projdomain.StatusApproved
			}
			n, err := s.Projects(ctx, items)
			if err != nil {
				return fmt.Errorf("seed demo projects: %w", err)
			}
			e.log.Info().Int("inserted", n).Int("total", len(items)).Msg("demo projects seeded")
			return nil
		},
	}
}

func openPool(ctx context.Context, e *env) (*pgxpool.Pool, error) {
	return bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      postgres.DSN(&e.cfg.Database),
		MaxConns: 2,
	})
}
