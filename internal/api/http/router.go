package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/ticket-assignment/internal/api/http/handlers"
	"github.com/spec-kit/ticket-assignment/internal/auth"
	"github.com/spec-kit/ticket-assignment/internal/domain"
	"github.com/spec-kit/ticket-assignment/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Assignments    *handlers.AssignmentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Get("/staff/me", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Staff.Me)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	registerAssignmentRoutes(api, cfg.Assignments)
}

func registerAssignmentRoutes(router fiber.Router, h *handlers.AssignmentsHandler) {
	dispatch := auth.RequireStaffRole(domain.StaffRoleDispatcher, domain.StaffRoleAdmin)

	router.Post("/assignments", dispatch, h.Assign)
	router.Post("/assignments/preview", dispatch, h.Preview)
	router.Get("/tickets/:ticket_id/assignments", h.ListForTicket)
	router.Get("/technicians", h.Technicians)
	router.Get("/assignment-tiers", h.Tiers)
}
