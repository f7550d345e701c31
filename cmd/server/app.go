package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/cache"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/mail"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/service/reminder"
	"github.com/phrazzld/todo-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	todoStore store.TodoStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	passwordHasher   auth.PasswordHasher
	mailer           mail.Mailer
	userService      *service.UserService

	// Response cache shared by the todo handlers
	responseCache *cache.ResponseCache

	// Background reminder sweep
	sweeper       *reminder.Sweeper
	cancelSweeper context.CancelFunc
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password hashing
	verifier := auth.NewBcryptVerifier()
	app.passwordVerifier = verifier
	app.passwordHasher = verifier

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.todoStore = postgres.NewPostgresTodoStore(db, logger)

	// Initialize the mailer; dry-run mode logs instead of sending.
	if cfg.Mail.DryRun {
		app.mailer = mail.NewLogMailer(logger)
		logger.Info("Mailer running in dry-run mode, emails will be logged only")
	} else {
		app.mailer, err = mail.NewSESMailer(cfg.Mail, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES mailer: %w", err)
		}
		logger.Info("SES mailer initialized", "region", cfg.Mail.Region)
	}

	// Initialize user service
	app.userService = service.NewUserService(
		app.userStore,
		app.passwordHasher,
		app.mailer,
		cfg.Mail.Sender,
		logger,
	)

	// Initialize response cache
	app.responseCache = cache.New(cfg.Cache.TTL())
	logger.Info("Response cache initialized", "ttl_seconds", cfg.Cache.TTLSeconds)

	// Start the reminder sweep when enabled.
	if cfg.Reminder.Enabled {
		app.sweeper = reminder.NewSweeper(
			app.todoStore,
			app.mailer,
			cfg.Mail.Sender,
			cfg.Reminder.Interval(),
			logger,
		)

		sweepCtx, cancel := context.WithCancel(ctx)
		app.cancelSweeper = cancel
		go app.sweeper.Run(sweepCtx)

		logger.Info("Reminder sweep started",
			"interval_minutes", cfg.Reminder.IntervalMinutes)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the reminder sweep
	if app.cancelSweeper != nil {
		app.cancelSweeper()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
