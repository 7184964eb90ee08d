// Package app assembles the stores and services shared by the HTTP server
// and the ticketctl command.
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/persistence"
	"github.com/spec-kit/ticket-desk/internal/repository"
	"github.com/spec-kit/ticket-desk/internal/service"
	"github.com/spec-kit/ticket-desk/internal/worker"
)

// App holds the constructed object graph.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      persistence.KeyValueStore
	Users      repository.UserRepository
	Dispatcher events.Dispatcher
	Tickets    *service.TicketService
	Auth       *service.AuthService
	Settings   *service.SettingsService
	Sessions   *service.SessionService

	notifier *worker.NotificationWorker
}

// Open connects the configured storage and builds the services over it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := persistence.Open(ctx, *cfg, logger)
	if err != nil {
		return nil, err
	}
	return New(cfg, store, clock.Real(), logger), nil
}

// New builds the services over an already opened store.
func New(cfg *config.Config, store persistence.KeyValueStore, clk clock.Clock, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := events.NewInMemoryDispatcher()
	notifier := worker.NewNotificationWorker(cfg.Notification.QueueSize, nil, logger)
	notifier.Start(context.Background())
	service.NewNotificationService(dispatcher, notifier, logger, cfg.Notification).RegisterHandlers()

	users := repository.NewUserRepository(store)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   users,
		Clock:      clk,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Users:      users,
		Dispatcher: dispatcher,
		Tickets: service.NewTicketService(service.TicketDependencies{
			TicketRepo: repository.NewTicketRepository(store),
			Clock:      clk,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Auth:     authService,
		Settings: service.NewSettingsService(repository.NewSettingsRepository(store)),
		Sessions: service.NewSessionService(authService, repository.NewSessionRepository(store)),
		notifier: notifier,
	}
}

// Close flushes pending notifications and releases the storage connection.
func (a *App) Close() error {
	a.notifier.Stop()
	return a.Store.Close()
}
