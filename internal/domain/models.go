package domain

// Category as returned by the store API.
type Category struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	CreatedAt string `json:"creationAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Product as returned by the store API. Read-only, fetched in bulk.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Category    Category `json:"category"`
	CreatedAt   string   `json:"creationAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// Image returns the first product image, or "" when none exist.
func (p Product) Image() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
