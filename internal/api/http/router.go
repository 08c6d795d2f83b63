package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/idrefz/deltaboard/internal/api/http/handlers"
	"github.com/idrefz/deltaboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Uploads        *handlers.UploadsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. All dashboard and upload routes
// require authentication; uploads additionally require the operator role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	uploads := app.Group("/uploads", cfg.AuthMiddleware.Handle)
	uploads.Post("", auth.RequireRole(auth.RoleOperator), cfg.Uploads.Upload)
	uploads.Get("/history", cfg.Uploads.History)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle)
	dashboard.Get("/summary", cfg.Dashboard.Summary)
	dashboard.Get("/changes", cfg.Dashboard.Changes)
	dashboard.Get("/regions", cfg.Dashboard.Regions)
	dashboard.Get("/export", cfg.Dashboard.Export)
}
