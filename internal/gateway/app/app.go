package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/coursekit/authgate/internal/gateway/http"
	"github.com/coursekit/authgate/internal/gateway/provider"
	"github.com/coursekit/authgate/internal/gateway/service"
	"github.com/coursekit/authgate/internal/gateway/store"
	"github.com/coursekit/authgate/internal/gateway/store/drivers/sqlite"
	"github.com/coursekit/authgate/pkg/cookiex"
	"github.com/coursekit/authgate/pkg/jwtx"
	"github.com/coursekit/authgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store // nil when auditing is disabled
	verifier *jwtx.Verifier

	// Services
	authService *service.AuthService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys := jwtx.NewRemoteKeySet(jwtx.JWKSURL(cfg.Issuer))
	app.verifier = jwtx.NewVerifier(cfg.Issuer, keys)

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("authgate starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authgate...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}

	app.logger.Info("authgate stopped")
	return nil
}

// initDatabase opens the audit database and applies migrations. An empty
// DatabaseFile disables auditing entirely.
func (app *Application) initDatabase() error {
	if app.cfg.DatabaseFile == "" {
		app.logger.Warn("audit database disabled")
		return nil
	}

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

// initServices wires the provider clients into the orchestrator.
func (app *Application) initServices() error {
	ctx := context.Background()

	public, err := provider.NewCognito(ctx, app.cfg.Region, app.cfg.ClientID, "")
	if err != nil {
		return fmt.Errorf("failed to initialize public client: %w", err)
	}

	var confidential provider.Client
	if app.cfg.ServerClientID != "" {
		c, err := provider.NewCognito(ctx, app.cfg.Region, app.cfg.ServerClientID, app.cfg.ClientSecret)
		if err != nil {
			return fmt.Errorf("failed to initialize confidential client: %w", err)
		}
		confidential = c
		app.logger.Info("confidential client fallback enabled")
	}

	app.authService = &service.AuthService{
		Public:       public,
		Confidential: confidential,
		Store:        app.db,
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		cookiex.Options{Secure: app.cfg.CookieSecure},
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.DownstreamBaseURL = app.cfg.DownstreamBaseURL
	router.DownstreamClientID = app.cfg.DownstreamClientID
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
