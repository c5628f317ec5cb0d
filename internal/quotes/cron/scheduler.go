package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	quotedomain "github.com/ilewa/ilewa-backend/internal/quotes/domain"
)

const (
	// Specs use the seconds field.
	QuoteRotationSpec = "0 0 0 * * *"
	PendingDigestSpec = "0 0 8 * * *"

	jobTimeout = 2 * time.Minute
)

type QuoteWarmer interface {
	Warm(ctx context.Context, now time.Time) quotedomain.DailyQuote
}

type PendingCounter interface {
	CountByStatus(ctx context.Context, status string) (int, error)
}

type AdminLister interface {
	ListAdmins(ctx context.Context) ([]authdomain.User, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, message string) error
}

// Jobs holds the dependencies of the scheduled tasks.
type Jobs struct {
	Quotes   QuoteWarmer
	Projects PendingCounter
	Admins   AdminLister
	Notifier Notifier
}

type Scheduler struct {
	cron *cron.Cron
	jobs Jobs
	log  zerolog.Logger
	now  func() time.Time
}

func NewScheduler(jobs Jobs, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		jobs: jobs,
		log:  log,
		now:  time.Now,
	}
}

// Start registers the nightly quote rotation and the morning pending digest.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(QuoteRotationSpec, func() { s.run("rotate_quote", s.RotateQuote) }); err != nil {
		return fmt.Errorf("schedule quote rotation: %w", err)
	}
	if _, err := s.cron.AddFunc(PendingDigestSpec, func() { s.run("pending_digest", s.PendingDigest) }); err != nil {
		return fmt.Errorf("schedule pending digest: %w", err)
	}

	s.log.Info().Str("rotation", QuoteRotationSpec).Str("digest", PendingDigestSpec).Msg("cron scheduler started")
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and returns a context that ends when running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) run(name string, job func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	log := s.log.With().Str("job", name).Logger()
	ctx = log.WithContext(ctx)

	start := time.Now()
	if err := job(ctx); err != nil {
		log.Error().Err(err).Msg("job failed")
		return
	}
	log.Info().Dur("took", time.Since(start)).Msg("job completed")
}

// RotateQuote computes and caches the quote for the current UTC day.
func (s *Scheduler) RotateQuote(ctx context.Context) error {
	q := s.jobs.Quotes.Warm(ctx, s.now())
	zerolog.Ctx(ctx).Info().Str("quote_id", q.ID).Msg("daily quote rotated")
	return nil
}

// PendingDigest reminds every admin when projects await moderation.
func (s *Scheduler) PendingDigest(ctx context.Context) error {
	n, err := s.jobs.Projects.CountByStatus(ctx, "pending")
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	admins, err := s.jobs.Admins.ListAdmins(ctx)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("%d project(s) are waiting for review.", n)
	failed := 0
	for _, a := range admins {
		if err := s.jobs.Notifier.Notify(ctx, a.ID, "system", "Projects awaiting review", msg); err != nil {
			failed++
			zerolog.Ctx(ctx).Warn().Err(err).Str("admin_id", a.ID).Msg("digest notification failed")
		}
	}
	if failed > 0 && failed == len(admins) {
		return fmt.Errorf("pending digest: all %d notifications failed", failed)
	}
	return nil
}
