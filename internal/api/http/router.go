package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sync/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Dashboard     *handlers.DashboardHandler
	TicketActions *handlers.TicketActionsHandler
	Notifications *handlers.NotificationsHandler
	Chat          *handlers.ChatHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Get("/view", cfg.Dashboard.View)
	api.Get("/rankings", cfg.Dashboard.Rankings)
	api.Get("/sync/history", cfg.Dashboard.History)
	api.Post("/sync/:loop", cfg.Dashboard.TriggerSync)

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Dashboard.Tickets)
	tickets.Post("/date-filter", cfg.TicketActions.FilterByDate)
	tickets.Delete("/date-filter", cfg.TicketActions.ResetDateFilter)
	tickets.Patch("/:id/status", cfg.TicketActions.UpdateStatus)
	tickets.Delete("/:id", cfg.TicketActions.Delete)

	notifications := api.Group("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	chat := api.Group("/chat")
	chat.Get("/", cfg.Chat.Get)
	chat.Put("/selection", cfg.Chat.Select)
	chat.Put("/draft", cfg.Chat.SetDraft)
	chat.Post("/messages", cfg.Chat.Send)
	chat.Delete("/messages", cfg.Chat.Clear)
	chat.Post("/refresh", cfg.Chat.Refresh)
}
