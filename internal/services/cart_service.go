package services

import (
	"context"

	"storefront/internal/repos"
)

type CartService struct {
	Carts   *repos.CartRepo
	Catalog *CatalogService
}

func NewCartService(carts *repos.CartRepo, catalog *CatalogService) *CartService {
	return &CartService{Carts: carts, Catalog: catalog}
}

func (s *CartService) Add(ctx context.Context, sessionID string, productID, qty int) error {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	return s.Carts.UpsertItem(cartID, p, qty)
}

func (s *CartService) SetQty(sessionID string, productID, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.SetQty(cartID, productID, qty)
}

func (s *CartService) Remove(sessionID string, productID int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID)
}

type CartView struct {
	Items []repos.CartItemRow
	Total float64
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}
