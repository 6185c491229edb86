package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/check-session", cfg.Auth.CheckSession)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)
	authGroup.Put("/notification-token", cfg.AuthMiddleware.Handle, cfg.Auth.UpdateNotificationToken)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Get("/stats", cfg.Complaints.Stats)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Post("/", auth.RequireCustomer(), cfg.Complaints.Create)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Put("/:id/status", auth.RequireAgent(), cfg.Complaints.UpdateStatus)
	complaints.Put("/:id/priority", auth.RequireAgent(), cfg.Complaints.UpdatePriority)
	complaints.Post("/:id/comments", cfg.Complaints.AddComment)
	complaints.Put("/:id/archive", auth.RequireAgent(), cfg.Complaints.Archive)
}
