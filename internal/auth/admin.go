package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// RequireAdminKey gates admin routes behind a shared key. The legacy app
// shipped these routes with no check at all; an empty key keeps that
// behavior, a configured key requires the X-Admin-Key header or ?key=
// query parameter.
func RequireAdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}

		supplied := c.Get("X-Admin-Key")
		if supplied == "" {
			supplied = c.Query("key")
		}
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			return apperrors.NewUnauthenticated()
		}
		return c.Next()
	}
}
