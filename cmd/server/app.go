package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/events"
	"github.com/taskvault/taskvault-api/internal/notifier"
	"github.com/taskvault/taskvault-api/internal/platform/postgres"
	"github.com/taskvault/taskvault-api/internal/platform/sendgrid"
	"github.com/taskvault/taskvault-api/internal/service"
	"github.com/taskvault/taskvault-api/internal/service/auth"
	"github.com/taskvault/taskvault-api/internal/store"
)

// application holds the assembled dependency graph of the server: config,
// database, stores, services, and the notification pipeline. It is built
// once at startup and torn down by cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	tokenService auth.TokenService
	userService  service.UserService
	taskService  service.TaskService

	emitter        events.Emitter
	notifierRunner *notifier.Runner
}

// newApplication wires every component together. The notification pipeline
// is optional: with email disabled the runner drains into a NopMailer so
// the rest of the wiring stays identical.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewUserStore(db)
	taskStore := postgres.NewTaskStore(db)

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	mailer, err := buildMailer(cfg, logger)
	if err != nil {
		return nil, err
	}
	runner := notifier.NewRunner(mailer, notifier.DefaultRunnerConfig(), logger)

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(notifier.NewEventHandler(runner, logger))

	userService := service.NewUserService(
		userStore,
		taskStore,
		tokenService,
		hasher,
		emitter,
		db,
		logger,
	)
	taskService := service.NewTaskService(taskStore, logger)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userStore:      userStore,
		taskStore:      taskStore,
		tokenService:   tokenService,
		userService:    userService,
		taskService:    taskService,
		emitter:        emitter,
		notifierRunner: runner,
	}, nil
}

// buildMailer selects the outbound mail transport. Disabled email is not an
// error; lifecycle events are simply dropped at the mailer.
func buildMailer(cfg *config.Config, logger *slog.Logger) (notifier.Mailer, error) {
	if !cfg.Email.Enabled {
		logger.Info("email notifications disabled")
		return notifier.NopMailer{}, nil
	}
	mailer, err := sendgrid.NewMailer(cfg.Email, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}
	return mailer, nil
}

// start brings up the background workers. Call before serving traffic.
func (app *application) start() {
	app.notifierRunner.Start()
}

// cleanup releases resources in reverse dependency order.
func (app *application) cleanup() {
	app.notifierRunner.Stop()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
