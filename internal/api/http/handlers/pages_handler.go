package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/session"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// PagesHandler renders the public landing page and the session-gated
// dashboard.
type PagesHandler struct{}

// NewPagesHandler constructs handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Home handles GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	return c.Render("home", fiber.Map{
		"Title":   "Home",
		"Flashes": sess.PopFlashes(),
	})
}

// Dashboard handles GET /dashboard. Anyone without an authenticated
// session is bounced to the login page.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	if !sess.Authenticated() {
		return flashAndRedirect(c, apperrors.NewUnauthenticated(), "/login")
	}

	return c.Render("dashboard", fiber.Map{
		"Title":    "Dashboard",
		"Username": sess.Username(),
		"Flashes":  sess.PopFlashes(),
	})
}
