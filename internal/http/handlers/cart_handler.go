package handlers

import (
	"strconv"

	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CartHandler struct {
	Cart *services.CartService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		log.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	productID, _ := strconv.Atoi(pid)
	qty := validate.Qty(c.FormValue("qty"))
	if err := h.Cart.Add(c.Context(), sid, productID, qty); err != nil {
		log.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not add item"})
	}
	log.Audit(c, "cart.add", map[string]any{"product": productID, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	productID, _ := strconv.Atoi(pid)
	qty, err := strconv.Atoi(c.FormValue("qty"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid qty")
	}
	if err := h.Cart.SetQty(sid, productID, qty); err != nil {
		log.Error(c, "cart.update.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update item")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	productID, _ := strconv.Atoi(pid)
	if err := h.Cart.Remove(sid, productID); err != nil {
		log.Error(c, "cart.remove.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).SendString("Could not remove item")
	}
	return c.Redirect("/cart")
}
