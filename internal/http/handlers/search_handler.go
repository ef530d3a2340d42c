package handlers

import (
	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// searchError renders the search page with an empty result set. The
// template needs every key present, so defaults are spelled out.
func searchError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
		"Err":        msg,
		"Q":          "",
		"CategoryID": "all",
		"Sort":       services.SortDefault,
		"MinPrice":   "",
		"MaxPrice":   "",
		"Page":       1,
		"Count":      0,
		"TotalPages": 0,
		"HasFilters": false,
	})
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	category := c.Query("category", "all")
	if category != "all" {
		if _, ok := validate.ID(category); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return searchError(c, "Invalid category")
		}
	}
	sortMode, ok := validate.Sort(c.Query("sort"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "sort"})
		return searchError(c, "Invalid sort mode")
	}
	minPrice, minOK := validate.Price(c.Query("minPrice"))
	maxPrice, maxOK := validate.Price(c.Query("maxPrice"))
	if !minOK || !maxOK {
		log.Security(c, "validation.fail", map[string]any{"field": "price"})
		return searchError(c, "Invalid price filter")
	}

	crit := services.Criteria{
		Query:      validate.Q(c.Query("q")),
		CategoryID: category,
		Sort:       sortMode,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Page:       validate.Page(c.Query("page")),
	}

	res, err := h.Catalog.Search(c.Context(), crit)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
			"Message": "Could not load results. Please retry.",
		})
	}
	cats, err := h.Catalog.Categories(c.Context())
	if err != nil {
		log.Error(c, "search.categories.error", err, nil)
		cats = nil // filter sidebar degrades; results still render
	}

	return render(c, "search", fiber.Map{
		"Q":          crit.Query,
		"CategoryID": crit.CategoryID,
		"Sort":       crit.Sort,
		"MinPrice":   c.Query("minPrice"),
		"MaxPrice":   c.Query("maxPrice"),
		"Page":       crit.Page,
		"Products":   res.PageItems,
		"Count":      res.TotalCount,
		"TotalPages": res.TotalPages,
		"Categories": cats,
		"HasFilters": services.HasActiveFilters(crit),
	})
}
