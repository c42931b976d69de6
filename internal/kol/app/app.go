package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openkol/kolboard/internal/kol/domain"
	httpapi "github.com/openkol/kolboard/internal/kol/http"
	"github.com/openkol/kolboard/internal/kol/instagram"
	"github.com/openkol/kolboard/internal/kol/notify"
	"github.com/openkol/kolboard/internal/kol/service"
	"github.com/openkol/kolboard/internal/kol/store"
	"github.com/openkol/kolboard/internal/kol/store/drivers/sqlite"
	"github.com/openkol/kolboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the kolboard service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	provider *instagram.Client
	notifier notify.Notifier

	// Services
	inviteService       *service.InviteService
	onboardingService   *service.OnboardingService
	profileService      *service.ProfileService
	campaignService     *service.CampaignService
	statsService        *service.StatsService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "kolboard",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AdminJWTSecret == "" {
		return nil, errors.New("ADMIN_JWT_SECRET must be set")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.provider = instagram.NewClient(instagram.Config{
		ClientID:     cfg.InstagramClientID,
		ClientSecret: cfg.InstagramClientSecret,
		RedirectURI:  cfg.InstagramRedirectURI,
	})
	app.notifier = notify.NewLogNotifier(app.logger)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("kolboard starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down kolboard...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("kolboard stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.inviteService = &service.InviteService{
		Store:             app.db,
		Notifier:          app.notifier,
		OnboardingBaseURL: app.cfg.OnboardingBaseURL,
		TTL:               app.cfg.InviteTTL,
	}
	app.onboardingService = &service.OnboardingService{
		Store:    app.db,
		Provider: providerAdapter{client: app.provider},
		Notifier: app.notifier,
	}
	app.profileService = &service.ProfileService{Store: app.db}
	app.campaignService = &service.CampaignService{Store: app.db}
	app.statsService = &service.StatsService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		[]byte(app.cfg.AdminJWTSecret),
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.InviteService = app.inviteService
	router.OnboardingService = app.onboardingService
	router.ProfileService = app.profileService
	router.CampaignService = app.campaignService
	router.StatsService = app.statsService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// providerAdapter narrows the instagram client to the service's provider
// interface and maps its identity type into the domain.
type providerAdapter struct {
	client *instagram.Client
}

func (a providerAdapter) AuthorizationURL() string {
	return a.client.AuthorizationURL()
}

func (a providerAdapter) Exchange(ctx context.Context, code string) (domain.LinkedIdentity, error) {
	id, err := a.client.Exchange(ctx, code)
	if err != nil {
		return domain.LinkedIdentity{}, err
	}
	return domain.LinkedIdentity{
		ProviderUserID: id.UserID,
		Handle:         id.Handle,
		Followers:      id.Followers,
		AvatarURL:      id.AvatarURL,
		Bio:            id.Bio,
		AccessToken:    id.AccessToken,
	}, nil
}
