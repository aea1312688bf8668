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

	httpapi "github.com/aussiebroadwan/taskapi/internal/taskapi/http"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store/cache"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskapi/pkg/cryptox"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the task API together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.Codec

	AuthService *service.AuthService
	UserService *service.UserService
	TaskService *service.TaskService

	server *http.Server
	router *httpapi.Router
}

// New builds an Application: logger, database with migrations applied, token
// codec, services and router.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "taskapi",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.UsesDefaultSecret() && cfg.Env != "dev" {
		app.logger.Warn("AUTH_JWT_SECRET is not set; using the development placeholder", "env", cfg.Env)
	}

	tokens, err := jwtx.NewCodec(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.tokens = tokens

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger { return app.logger }

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("task api starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down task api...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	return app.Close()
}

// Close releases the database without touching the HTTP server. CLI commands
// that never call Run use it.
func (app *Application) Close() error {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	app.logger.Info("task api stopped")
	return nil
}

// OpenStore opens the configured database and applies pending migrations.
func OpenStore(cfg Config) (*sqlite.Store, error) {
	db, err := sqlite.NewStore(DSN(cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

// DSN turns a database file path into a modernc.org/sqlite DSN with the
// pragmas every pooled connection needs.
func DSN(file string) string {
	if file == ":memory:" {
		return file
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", file)
}

func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return err
	}
	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)

	app.db = cache.New(db, app.cfg.PrincipalCacheSize, app.cfg.PrincipalCacheTTL)
	return nil
}

func (app *Application) initServices() error {
	pepper, err := cryptox.LoadPepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.AuthService = &service.AuthService{
		Store:  app.db,
		Hasher: cryptox.NewPasswordHasher(app.cfg.PasswordHasher, pepper),
		Tokens: app.tokens,
	}
	app.UserService = &service.UserService{Store: app.db}
	app.TaskService = &service.TaskService{Store: app.db}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.tokens, BuildVersion, app.db, app.logger)

	router.AuthService = app.AuthService
	router.UserService = app.UserService
	router.TaskService = app.TaskService
	router.CredentialLimit = app.cfg.CredentialRateLimit
	router.APILimit = app.cfg.APIRateLimit
	if len(app.cfg.CORSAllowedOrigins) > 0 {
		opts := httpapi.DefaultCORSOptions()
		opts.AllowedOrigins = app.cfg.CORSAllowedOrigins
		router.CORS = &opts
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
