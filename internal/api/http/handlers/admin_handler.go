package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/service"
	"github.com/spec-kit/account-service/internal/session"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AdminHandler exposes the account listing and approval actions.
type AdminHandler struct {
	accounts *service.AccountService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accountService}
}

// Dashboard handles GET /admin: every account, unfiltered.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	users, err := h.accounts.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	sess := session.FromCtx(c)
	return c.Render("admin", fiber.Map{
		"Title":   "Admin",
		"Users":   users,
		"Flashes": sess.PopFlashes(),
	})
}

// Approve handles GET /admin/approve/:id. Re-approving an approved account
// succeeds again; only a missing id reports an error.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return flashAndRedirect(c, apperrors.NewUserNotFound(), "/admin")
	}

	user, err := h.accounts.Approve(c.UserContext(), int64(id))
	if err != nil {
		return flashAndRedirect(c, err, "/admin")
	}

	sess := session.FromCtx(c)
	sess.Flash(apperrors.CategorySuccess, fmt.Sprintf("User %s has been approved", user.Username))
	return c.Redirect("/admin")
}
