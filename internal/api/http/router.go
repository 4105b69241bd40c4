package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Pages    *handlers.PagesHandler
	Accounts *handlers.AccountsHandler
	Admin    *handlers.AdminHandler
	AdminKey string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Pages.Home)
	app.Get("/register", cfg.Accounts.RegisterPage)
	app.Post("/register", cfg.Accounts.Register)
	app.Get("/login", cfg.Accounts.LoginPage)
	app.Post("/login", cfg.Accounts.Login)
	app.Get("/dashboard", cfg.Pages.Dashboard)
	app.Get("/logout", cfg.Accounts.Logout)

	admin := app.Group("/admin", auth.RequireAdminKey(cfg.AdminKey))
	admin.Get("/", cfg.Admin.Dashboard)
	admin.Get("/approve/:id", cfg.Admin.Approve)
}
