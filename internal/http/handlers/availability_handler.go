package handlers

import (
	"storefront/internal/log"
	"storefront/internal/storeapi"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AvailabilityHandler proxies the registration form's email-availability
// pre-check to the store API.
type AvailabilityHandler struct {
	API *storeapi.Client
}

func (h *AvailabilityHandler) Check(c *fiber.Ctx) error {
	email, ok := validate.Email(c.Query("email"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "enter a valid email",
		})
	}
	avail, err := h.API.EmailAvailable(c.Context(), email)
	if err != nil {
		log.Error(c, "availability.check.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"isAvailable": avail})
}
