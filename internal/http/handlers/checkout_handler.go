package handlers

import (
	"storefront/internal/log"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler is a stub: it shows a summary and clears the cart. There
// is no payment step and nothing is persisted beyond emptying the cart.
type CheckoutHandler struct {
	Cart *services.CartService
}

func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		log.Error(c, "checkout.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load checkout"})
	}
	if len(cv.Items) == 0 {
		return c.Redirect("/cart")
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		log.Error(c, "checkout.place.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not place order"})
	}
	if len(cv.Items) == 0 {
		return c.Redirect("/cart")
	}
	if err := h.Cart.Clear(sid); err != nil {
		log.Error(c, "checkout.clear.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not place order"})
	}
	log.Audit(c, "checkout.placed", map[string]any{"items": len(cv.Items), "total": cv.Total})
	return render(c, "order_placed", fiber.Map{"Total": cv.Total})
}
