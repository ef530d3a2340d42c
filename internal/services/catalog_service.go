package services

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

// Cache lifetimes for the bulk catalog fetches.
const (
	productsTTL   = 5 * time.Minute
	categoriesTTL = 10 * time.Minute
)

// CatalogAPI is the slice of the store API the catalog needs.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
}

// CatalogService serves products and categories from the remote API with a
// short in-memory cache, and runs the client-side query pipeline over the
// full product list.
type CatalogService struct {
	API CatalogAPI

	mu           sync.Mutex
	products     []domain.Product
	productsAt   time.Time
	categories   []domain.Category
	categoriesAt time.Time
}

func NewCatalogService(api CatalogAPI) *CatalogService {
	return &CatalogService{API: api}
}

// Products returns the full product list, refetching after the TTL.
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.products != nil && time.Since(s.productsAt) < productsTTL {
		return s.products, nil
	}
	ps, err := s.API.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.products = ps
	s.productsAt = time.Now()
	return ps, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categories != nil && time.Since(s.categoriesAt) < categoriesTTL {
		return s.categories, nil
	}
	cs, err := s.API.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.categories = cs
	s.categoriesAt = time.Now()
	return cs, nil
}

// GetProduct serves a product from the cached list when possible, falling
// back to the detail endpoint.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	s.mu.Lock()
	if s.products != nil && time.Since(s.productsAt) < productsTTL {
		for _, p := range s.products {
			if p.ID == id {
				s.mu.Unlock()
				return p, nil
			}
		}
	}
	s.mu.Unlock()
	return s.API.GetProduct(ctx, id)
}

// ProductsByCategory lists one category's products straight from the API.
func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	return s.API.ListProductsByCategory(ctx, categoryID)
}

// Related returns up to limit products sharing p's category, excluding p.
func (s *CatalogService) Related(ctx context.Context, p domain.Product, limit int) ([]domain.Product, error) {
	ps, err := s.API.ListProductsByCategory(ctx, p.Category.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, limit)
	for _, q := range ps {
		if q.ID == p.ID {
			continue
		}
		out = append(out, q)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Featured returns the first n products for the home page.
func (s *CatalogService) Featured(ctx context.Context, n int) ([]domain.Product, error) {
	ps, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	if len(ps) > n {
		ps = ps[:n]
	}
	return ps, nil
}

// Search runs the query pipeline over the full (cached) product list.
func (s *CatalogService) Search(ctx context.Context, c Criteria) (QueryResult, error) {
	ps, err := s.Products(ctx)
	if err != nil {
		return QueryResult{}, err
	}
	return Query(ps, c), nil
}
