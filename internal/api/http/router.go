package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/access-control-api/internal/api/http/handlers"
	"github.com/spec-kit/access-control-api/internal/auth"
	"github.com/spec-kit/access-control-api/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Resources      *handlers.ResourcesHandler
	AdminUsers     *handlers.AdminUsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Identity is always resolved before
// any role check, so a bad token fails as unauthorized rather than
// forbidden.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/me", cfg.Users.Me)
	protected.Get("/resources", cfg.Resources.List)

	admin := protected.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/resources", cfg.Resources.AdminList)
	admin.Post("/users/:id/deactivate", cfg.AdminUsers.Deactivate)
	admin.Post("/users/:id/activate", cfg.AdminUsers.Activate)
}
