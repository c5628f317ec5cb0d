package bootstrap

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/ilewa/ilewa-backend/config"
	authrepo "github.com/ilewa/ilewa-backend/internal/auth/repository"
	authservice "github.com/ilewa/ilewa-backend/internal/auth/service"
	commentrepo "github.com/ilewa/ilewa-backend/internal/comments/repository"
	commentservice "github.com/ilewa/ilewa-backend/internal/comments/service"
	dashservice "github.com/ilewa/ilewa-backend/internal/dashboard/service"
	"github.com/ilewa/ilewa-backend/internal/events"
	geoclient "github.com/ilewa/ilewa-backend/internal/geocode/client"
	georepo "github.com/ilewa/ilewa-backend/internal/geocode/repository"
	geoservice "github.com/ilewa/ilewa-backend/internal/geocode/service"
	"github.com/ilewa/ilewa-backend/internal/mailer"
	"github.com/ilewa/ilewa-backend/internal/mapview"
	msgrepo "github.com/ilewa/ilewa-backend/internal/messages/repository"
	msgservice "github.com/ilewa/ilewa-backend/internal/messages/service"
	notifrepo "github.com/ilewa/ilewa-backend/internal/notifications/repository"
	notifservice "github.com/ilewa/ilewa-backend/internal/notifications/service"
	projectrepo "github.com/ilewa/ilewa-backend/internal/projects/repository"
	projectservice "github.com/ilewa/ilewa-backend/internal/projects/service"
	quoterepo "github.com/ilewa/ilewa-backend/internal/quotes/repository"
	quoteservice "github.com/ilewa/ilewa-backend/internal/quotes/service"
)

type ServiceDeps struct {
	Config  *config.Config
	SQL     *sql.DB
	Redis   *redis.Client
	Mailer  mailer.Mailer
	Catalog *mapview.Catalog
}

// Services is the wired application graph shared by the API and the worker.
type Services struct {
	Catalog  *mapview.Catalog
	Bus      *events.Bus
	Users    *authrepo.UserRepository
	Projects *projectrepo.ProjectRepository

	Auth          *authservice.AuthService
	Project       *projectservice.ProjectService
	Comments      *commentservice.CommentService
	Notifications *notifservice.NotificationService
	Messages      *msgservice.MessageService
	Quotes        *quoteservice.QuoteService
	Dashboard     *dashservice.DashboardService
	Geocode       *geoservice.GeocodeService
}

func NewServices(dep ServiceDeps) *Services {
	catalog := dep.Catalog
	if catalog == nil {
		catalog = mapview.MustLoadCatalog()
	}
	catalog = catalog.WithDefaultBasemap(dep.Config.Map.DefaultBasemap)

	bus := events.NewBus(dep.Redis)
	users := authrepo.NewUserRepository(dep.SQL)
	projects := projectrepo.NewProjectRepository(dep.SQL)

	notifications := notifservice.NewNotificationService(notifrepo.NewNotificationRepository(dep.SQL), bus)

	mail := dep.Mailer
	if mail == nil {
		mail = mailer.Noop{}
	}
	project := projectservice.NewProjectService(projects, catalog,
		projectservice.WithFeedCache(projectrepo.NewFeedCache(dep.Redis, dep.Config.Redis.CacheTTL)),
		projectservice.WithNotifier(notifications),
		projectservice.WithMailer(mail, users),
		projectservice.WithDemoFallback(dep.Config.Map.DemoFallback),
	)

	gc := dep.Config.Geocode
	geocoder := geoclient.NewNominatim(geoclient.Config{
		BaseURL:      gc.BaseURL,
		UserAgent:    gc.UserAgent,
		Interval:     gc.Interval,
		Timeout:      gc.Timeout,
		CountryCodes: gc.CountryCodes,
	})

	return &Services{
		Catalog:       catalog,
		Bus:           bus,
		Users:         users,
		Projects:      projects,
		Auth:          authservice.NewAuthService(users),
		Project:       project,
		Comments:      commentservice.NewCommentService(commentrepo.NewCommentRepository(dep.SQL), project, notifications),
		Notifications: notifications,
		Messages:      msgservice.NewMessageService(msgrepo.NewMessageRepository(dep.SQL), users, notifications, bus),
		Quotes:        quoteservice.NewQuoteService(quoterepo.NewQuoteRepository(dep.SQL), quoterepo.NewQuoteCache(dep.Redis)),
		Dashboard:     dashservice.NewDashboardService(projects, users),
		Geocode:       geoservice.NewGeocodeService(geocoder, georepo.NewGeoCache(dep.Redis, gc.CacheTTL)),
	}
}
