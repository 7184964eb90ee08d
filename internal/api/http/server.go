package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/http/handlers"
	"github.com/spec-kit/ticket-desk/internal/app"
	"github.com/spec-kit/ticket-desk/internal/auth"
	"github.com/spec-kit/ticket-desk/internal/observability"
)

// NewServer returns a fiber app with middlewares and routes bound to a.
func NewServer(a *app.App, metrics *observability.Metrics) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               a.Config.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(server, a.Logger, metrics, a.Config.App.RequestTimeout())

	RegisterRoutes(server, RouteConfig{
		Health: handlers.NewHealthHandler(
			a.Config.App.Name, a.Config.App.Version, a.Config.Storage.Driver, a.Store, metrics),
		Users:          handlers.NewUsersHandler(a.Auth),
		Tickets:        handlers.NewTicketsHandler(a.Tickets, a.Settings),
		Dashboard:      handlers.NewDashboardHandler(a.Tickets, a.Auth),
		Settings:       handlers.NewSettingsHandler(a.Settings),
		AuthMiddleware: auth.NewAuthMiddleware(a.Auth.TokenManager(), a.Users),
	})
	return server
}
