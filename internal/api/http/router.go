package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crisis-service/internal/api/http/handlers"
	"github.com/spec-kit/crisis-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Users         *handlers.UsersHandler
	Reports       *handlers.ReportsHandler
	Notifications *handlers.NotificationsHandler
	Identity      *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Health probes register before the
// identity middleware so they bypass the policy table; every other route is
// gated by it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	app.Use(cfg.Identity.Handle)

	app.Post("/auth/login", cfg.Auth.Login)

	users := app.Group("/users")
	users.Post("/signup", cfg.Users.Signup)
	users.Get("/responders", cfg.Users.ListResponders)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Patch("/:id/status", cfg.Users.ToggleStatus)

	reports := app.Group("/crisis-reports")
	reports.Post("/", cfg.Reports.Create)
	reports.Get("/", cfg.Reports.List)
	reports.Get("/responder/:responderId/active", cfg.Reports.ListActiveByResponder)
	reports.Get("/responder/:responderId", cfg.Reports.ListByResponder)
	reports.Get("/:id", cfg.Reports.Get)
	reports.Patch("/:id/resolve", cfg.Reports.Resolve)
	reports.Patch("/:id/assign/:responderId", cfg.Reports.Assign)
	reports.Patch("/:id/status", cfg.Reports.UpdateStatus)
	reports.Delete("/:id", cfg.Reports.Delete)

	notifications := app.Group("/notifications")
	notifications.Get("/user/:userId", cfg.Notifications.ListForUser)
	notifications.Get("/unread-count/user/:userId", cfg.Notifications.UnreadCount)
	notifications.Patch("/:id/mark-as-read", cfg.Notifications.MarkAsRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)
}
