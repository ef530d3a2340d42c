package handlers

import (
	"strconv"

	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type HomeHandler struct {
	Catalog *services.CatalogService
}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories(c.Context())
	if err != nil {
		log.Error(c, "home.categories.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
			"Message": "Could not load the store. Please retry.",
		})
	}
	featured, err := h.Catalog.Featured(c.Context(), 8)
	if err != nil {
		log.Error(c, "home.featured.error", err, nil)
		featured = nil
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Featured": featured})
}

func (h *HomeHandler) Category(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	catID, _ := strconv.Atoi(id)
	products, err := h.Catalog.ProductsByCategory(c.Context(), catID)
	if err != nil {
		log.Error(c, "category.list.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
			"Message": "Could not load this category. Please retry.",
		})
	}
	return render(c, "category", fiber.Map{"CategoryID": id, "Products": products})
}
