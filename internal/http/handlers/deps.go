package handlers

import (
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/storeapi"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	HomeHandler         *HomeHandler
	SearchHandler       *SearchHandler
	ProductHandler      *ProductHandler
	CartHandler         *CartHandler
	CheckoutHandler     *CheckoutHandler
	AvailabilityHandler *AvailabilityHandler
}

func NewDeps(db *sqlx.DB, api *storeapi.Client) *Deps {
	cartRepo := repos.NewCartRepo(db)

	catalogSvc := services.NewCatalogService(api)
	cartSvc := services.NewCartService(cartRepo, catalogSvc)

	return &Deps{
		HomeHandler:         &HomeHandler{Catalog: catalogSvc},
		SearchHandler:       &SearchHandler{Catalog: catalogSvc},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		CheckoutHandler:     &CheckoutHandler{Cart: cartSvc},
		AvailabilityHandler: &AvailabilityHandler{API: api},
	}
}
