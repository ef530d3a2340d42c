package handlers

import (
	"strconv"

	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	pid, _ := strconv.Atoi(id)
	p, err := h.Catalog.GetProduct(c.Context(), pid)
	if err != nil || p.ID == 0 {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	related, err := h.Catalog.Related(c.Context(), p, 4)
	if err != nil {
		log.Error(c, "product.related.error", err, map[string]any{"product": p.ID})
		related = nil
	}
	return render(c, "product", fiber.Map{"P": p, "Related": related})
}
