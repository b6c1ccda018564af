package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-registration-service/internal/api/http/handlers"
	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Registrations  *handlers.RegistrationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	users := api.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
	users.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.Create)
	users.Get("/username/:username", cfg.Users.GetByUsername)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	// Event listing and lookup stay public; mutations require a login.
	events := api.Group("/events")
	events.Get("/", cfg.Events.List)
	events.Get("/search", cfg.Events.Search)
	events.Get("/organizer/:organizerId", cfg.Events.ListByOrganizer)
	events.Get("/:id", cfg.Events.Get)

	eventWrites := events.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	eventWrites.Post("/", auth.RequireRole(domain.RoleOrganizer, domain.RoleAdmin), cfg.Events.Create)
	eventWrites.Put("/:id", cfg.Events.Update)
	eventWrites.Delete("/:id", cfg.Events.Delete)
	eventWrites.Patch("/:id/publish", cfg.Events.Publish)
	eventWrites.Patch("/:id/unpublish", cfg.Events.Unpublish)

	registrations := api.Group("/registrations", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	registrations.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Registrations.List)
	registrations.Get("/user/:userId", cfg.Registrations.ListByUser)
	registrations.Get("/event/:eventId", cfg.Registrations.ListByEvent)
	registrations.Post("/user/:userId/event/:eventId", cfg.Registrations.Register)
	registrations.Patch("/user/:userId/event/:eventId/cancel", cfg.Registrations.Cancel)
	registrations.Get("/:id", cfg.Registrations.Get)
	registrations.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Registrations.Delete)
}
