package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(session *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := session.CurrentUser()
		if u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}
