package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/session"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// flashAndRedirect converts an expected flow failure into its one-shot
// flash plus redirect. Unexpected errors pass through to the error
// middleware instead of leaking internals into a flash.
func flashAndRedirect(c *fiber.Ctx, err error, target string) error {
	flowErr := apperrors.ToFlowError(err)
	if flowErr.Code == "INTERNAL_ERROR" {
		return err
	}

	sess := session.FromCtx(c)
	sess.Flash(flowErr.Category, flowErr.Message)
	return c.Redirect(target)
}
