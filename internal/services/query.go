package services

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
)

// PageSize is the fixed number of products per result page.
const PageSize = 12

// Catalog sort modes.
const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
	SortNewest    = "newest"
)

// Criteria is the user-selected filter state driving the visible product
// subset. Zero values mean "no constraint" (CategoryID "" behaves as "all").
type Criteria struct {
	Query      string
	CategoryID string
	Sort       string
	MinPrice   *float64
	MaxPrice   *float64
	Page       int
}

// QueryResult is one page of a filtered, sorted product view.
type QueryResult struct {
	PageItems  []domain.Product
	TotalCount int
	TotalPages int
}

// Query derives the visible page from the full product list and the given
// criteria: filter, then stable sort, then paginate. Deterministic for a
// fixed input; a page past the end yields an empty slice, not an error.
func Query(products []domain.Product, c Criteria) QueryResult {
	q := strings.ToLower(c.Query)

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !matches(p, q, c) {
			continue
		}
		filtered = append(filtered, p)
	}
	sortProducts(filtered, c.Sort)

	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize

	page := c.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start > total {
		start = total
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	return QueryResult{
		PageItems:  filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
	}
}

func matches(p domain.Product, q string, c Criteria) bool {
	if q != "" &&
		!strings.Contains(strings.ToLower(p.Title), q) &&
		!strings.Contains(strings.ToLower(p.Description), q) {
		return false
	}
	if c.CategoryID != "" && c.CategoryID != "all" &&
		strconv.Itoa(p.Category.ID) != c.CategoryID {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	return true
}

func sortProducts(ps []domain.Product, mode string) {
	switch mode {
	case SortPriceLow:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price < ps[j].Price })
	case SortPriceHigh:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price > ps[j].Price })
	case SortName:
		col := collate.New(language.English)
		sort.SliceStable(ps, func(i, j int) bool {
			return col.CompareString(ps[i].Title, ps[j].Title) < 0
		})
	case SortNewest:
		// Higher id = newer; the API exposes no usable timestamp.
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].ID > ps[j].ID })
	}
}

// HasActiveFilters reports whether any non-default criterion is set. Drives
// the "clear filters" affordance only.
func HasActiveFilters(c Criteria) bool {
	return c.Query != "" ||
		(c.CategoryID != "" && c.CategoryID != "all") ||
		(c.Sort != "" && c.Sort != SortDefault) ||
		c.MinPrice != nil ||
		c.MaxPrice != nil
}
