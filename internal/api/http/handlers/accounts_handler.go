package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/service"
	"github.com/spec-kit/account-service/internal/session"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AccountsHandler exposes the registration, login and logout flows.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// RegisterPage handles GET /register.
func (h *AccountsHandler) RegisterPage(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	return c.Render("register", fiber.Map{
		"Title":   "Register",
		"Flashes": sess.PopFlashes(),
	})
}

// Register handles POST /register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterForm
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		sess := session.FromCtx(c)
		sess.Flash(apperrors.CategoryWarning, "Username, email and password are required")
		return c.Redirect("/register")
	}

	if _, err := h.accounts.Register(c.UserContext(), req.Username, req.Email, req.Password); err != nil {
		return flashAndRedirect(c, err, "/register")
	}

	sess := session.FromCtx(c)
	sess.Flash(apperrors.CategorySuccess, "Registration successful! Please wait for admin approval.")
	return c.Redirect("/login")
}

// LoginPage handles GET /login.
func (h *AccountsHandler) LoginPage(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	return c.Render("login", fiber.Map{
		"Title":   "Login",
		"Flashes": sess.PopFlashes(),
	})
}

// Login handles POST /login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginForm
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.accounts.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return flashAndRedirect(c, err, "/login")
	}

	sess := session.FromCtx(c)
	sess.Login(user.ID, user.Username)
	sess.Flash(apperrors.CategorySuccess, "Login successful!")
	return c.Redirect("/dashboard")
}

// Logout handles GET /logout. Clearing an already-empty session is fine.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	sess := session.FromCtx(c)
	sess.Clear()
	sess.Flash(apperrors.CategorySuccess, "You have been logged out")
	return c.Redirect("/")
}
