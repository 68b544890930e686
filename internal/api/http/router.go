package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lending-service/internal/api/http/handlers"
	"github.com/spec-kit/lending-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	CreditScores   *handlers.CreditScoresHandler
	Servicing      *handlers.ServicingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)
	app.Get("/verify-email", cfg.Users.VerifyEmail)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/profile", cfg.Users.GetProfile)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Get("/credit-score", cfg.CreditScores.GetOwn)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Post("/loans", cfg.Servicing.CreateLoan)
	admin.Patch("/loans/:id/status", cfg.Servicing.UpdateLoanStatus)
	admin.Post("/payments", cfg.Servicing.RecordPayment)
	admin.Patch("/payments/:id/status", cfg.Servicing.UpdatePaymentStatus)
	admin.Put("/reputations", cfg.Servicing.UpsertReputation)
	admin.Post("/credit-scores/recalculate", cfg.CreditScores.RecalculateAll)
	admin.Post("/credit-scores/:userId/recalculate", cfg.CreditScores.Recalculate)
}
