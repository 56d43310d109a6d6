package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fuelcard/reclamation-service/internal/api/http/handlers"
	"github.com/fuelcard/reclamation-service/internal/auth"
	"github.com/fuelcard/reclamation-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Stations       *handlers.StationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	reclamations := app.Group("/reclamations", cfg.AuthMiddleware.Handle)
	// fixed routes before :id so "unclaimed" never matches as a ticket id
	reclamations.Get("/unclaimed", auth.RequireSpecialist(), cfg.Tickets.ListUnclaimed)
	reclamations.Post("", cfg.Tickets.CreateTicket)
	reclamations.Get("", cfg.Tickets.ListTickets)
	reclamations.Get("/:id", cfg.Tickets.GetTicket)
	reclamations.Patch("/:id", cfg.Tickets.UpdateTicket)
	reclamations.Delete("/:id", cfg.Tickets.DeleteTicket)
	reclamations.Post("/:id/take-charge", cfg.Tickets.TakeCharge)
	reclamations.Post("/:id/status", cfg.Tickets.ChangeStatus)
	reclamations.Post("/:id/updates", cfg.Tickets.AddUpdate)

	stations := app.Group("/stations", cfg.AuthMiddleware.Handle)
	stations.Get("", cfg.Stations.ListStations)
	stations.Get("/:id", cfg.Stations.GetStation)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/users", cfg.Users.CreateOperator)
	admin.Post("/stations", cfg.Stations.CreateStation)
}
