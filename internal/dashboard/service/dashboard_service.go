package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/projects/demo"
	projdomain "github.com/ilewa/ilewa-backend/internal/projects/domain"
)

// TimelineMonths is the number of calendar months in the timeline, the current one included.
const TimelineMonths = 6

type ProjectStats interface {
	Stats(ctx context.Context) (projdomain.Stats, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	MonthlySubmissions(ctx context.Context, since time.Time) (map[string]int, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type Stats struct {
	projdomain.Stats
	TotalUsers int                     `json:"totalUsers"`
	MyProjects int                     `json:"myProjects"`
	Timeline   []projdomain.MonthCount `json:"timeline"`
	Source     string                  `json:"source"`
}

type DashboardService struct {
	projects ProjectStats
	users    UserCounter
	now      func() time.Time
}

func NewDashboardService(projects ProjectStats, users UserCounter) *DashboardService {
	return &DashboardService{projects: projects, users: users, now: time.Now}
}

// Stats aggregates counts for the actor's dashboard. When the store fails the
// numbers come from the demo dataset and Source is "demo".
func (s *DashboardService) Stats(ctx context.Context, actor authdomain.Actor) (Stats, error) {
	if actor.IsAnonymous() {
		return Stats{}, apperr.Unauthorized("")
	}
	now := s.now().UTC()
	months := window(now)

	out, err := s.live(ctx, actor, months)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard stats unavailable, using demo data")
		return demoStats(actor, months), nil
	}
	return out, nil
}

func (s *DashboardService) live(ctx context.Context, actor authdomain.Actor, months []time.Time) (Stats, error) {
	st, err := s.projects.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	mine, err := s.projects.CountByAuthor(ctx, actor.ID)
	if err != nil {
		return Stats{}, err
	}
	counts, err := s.projects.MonthlySubmissions(ctx, months[0])
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Stats:      st,
		TotalUsers: users,
		MyProjects: mine,
		Timeline:   timeline(months, counts),
		Source:     projdomain.SourceLive,
	}, nil
}

func demoStats(actor authdomain.Actor, months []time.Time) Stats {
	items := demo.Projects()
	authors := make(map[string]struct{})
	counts := make(map[string]int)
	mine := 0
	for _, p := range items {
		authors[p.AuthorID] = struct{}{}
		if p.AuthorID == actor.ID {
			mine++
		}
		if !p.CreatedAt.Before(months[0]) {
			counts[monthKey(p.CreatedAt)]++
		}
	}
	return Stats{
		Stats:      demo.Stats(),
		TotalUsers: len(authors),
		MyProjects: mine,
		Timeline:   timeline(months, counts),
		Source:     projdomain.SourceDemo,
	}
}

// window returns the first instant of each timeline month, oldest first.
func window(now time.Time) []time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, TimelineMonths)
	for i := range out {
		out[i] = first.AddDate(0, i-(TimelineMonths-1), 0)
	}
	return out
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func timeline(months []time.Time, counts map[string]int) []projdomain.MonthCount {
	out := make([]projdomain.MonthCount, len(months))
	for i, m := range months {
		k := monthKey(m)
		out[i] = projdomain.MonthCount{Month: k, Count: counts[k]}
	}
	return out
}
