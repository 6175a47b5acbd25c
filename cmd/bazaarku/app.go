package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bazaarku/internal/api"
	"bazaarku/internal/config"
	"bazaarku/internal/database"
	"bazaarku/internal/domain"
	"bazaarku/internal/events"
	"bazaarku/internal/logging"
	"bazaarku/internal/metrics"
	"bazaarku/internal/repository"
	"bazaarku/internal/service"
	"bazaarku/internal/session"

	"github.com/rs/zerolog"
)

// app holds everything a command needs. It is built once per invocation
// in the root command's PersistentPreRunE.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  domain.SessionStore
	bus    *events.EventBus
	nav    *session.RouteTracker
	expiry *session.ExpiryFlow
	client *api.Client

	sessions *service.SessionService
	details  *service.EventDetailService
	reviews  *service.ReviewService
	booths   *service.BoothService
	admin    *service.AdminService

	metricsFile string
	closers     []io.Closer
}

func newApp(configPath string, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, logCloser, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logging.Component(baseLogger, "cli")}
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	if err := a.openSessionStore(); err != nil {
		a.Close()
		return nil, err
	}

	a.bus = events.NewEventBus()
	a.subscribeLogging()

	a.nav = session.NewRouteTracker(cfg.Session.RedirectRoute)
	a.expiry = session.NewExpiryFlow(session.ExpiryOptions{
		Store:     a.store,
		Notifier:  session.WriterNotifier{W: stderr},
		Navigator: a.nav,
		Publisher: a.bus,
		Logger:    &a.logger,
		Delay:     cfg.Session.ExpiryNoticeDelay,
		Route:     cfg.Session.RedirectRoute,
	})

	client, err := api.NewFromConfig(cfg.API, a.store, a.expiry, &a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	a.client = client

	a.sessions = service.NewSessionService(client, a.store, a.expiry, a.bus, &a.logger)
	a.details = service.NewEventDetailService(client, &a.logger)
	a.reviews = service.NewReviewService(a.details, client, a.store, a.bus, &a.logger)
	a.booths = service.NewBoothService(client, client, a.bus, &a.logger)
	a.admin = service.NewAdminService(client, 0, &a.logger)
	return a, nil
}

// openSessionStore picks the durable storage for token and profile. The
// redis backend falls back to the SQLite file while redis is unreachable.
func (a *app) openSessionStore() error {
	switch a.cfg.Session.Backend {
	case config.SessionBackendMemory:
		a.store = repository.NewMemorySessionStore()
		return nil
	case config.SessionBackendSQLite:
		db, err := a.openSQLite()
		if err != nil {
			return err
		}
		a.store = db
		return nil
	case config.SessionBackendRedis:
		db, err := a.openSQLite()
		if err != nil {
			return err
		}
		client := repository.NewRedisClient(a.cfg.Redis)
		a.closers = append(a.closers, closerFunc(func() error { return repository.Close(client) }))
		primary := repository.NewRedisSessionStore(client, a.cfg.Redis.KeyPrefix, a.cfg.Session.TTL)
		a.store = repository.NewFailoverSessionStore(primary, db, &a.logger)
		return nil
	default:
		return fmt.Errorf("unknown session backend %q", a.cfg.Session.Backend)
	}
}

func (a *app) openSQLite() (*database.SessionDB, error) {
	path := a.cfg.Session.SQLitePath
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	db, err := database.NewSessionDB(path, &a.logger)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	a.closers = append(a.closers, db)
	return db, nil
}

func (a *app) subscribeLogging() {
	for _, eventType := range []string{
		events.EventSessionStarted,
		events.EventSessionExpired,
		events.EventSessionCleared,
		events.EventReviewPosted,
		events.EventBoothApplied,
		events.EventBoothReviewed,
	} {
		a.bus.Subscribe(eventType, func(e *events.Event) error {
			a.logger.Debug().Str("event", e.Type).RawJSON("payload", e.Payload).Msg("client event")
			return nil
		})
	}
}

func (a *app) Close() {
	if a.metricsFile != "" {
		if err := metrics.WriteTextfile(a.metricsFile); err != nil {
			a.logger.Warn().Err(err).Str("path", a.metricsFile).Msg("write metrics file")
		}
		a.metricsFile = ""
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close resource")
		}
	}
	a.closers = nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
