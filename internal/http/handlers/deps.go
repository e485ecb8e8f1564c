package handlers

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"onlinestore/internal/config"
	"onlinestore/internal/repos"
	"onlinestore/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	SearchHandler    *SearchHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	VoucherHandler   *VoucherHandler
	ReviewHandler    *ReviewHandler
	AdminHandler     *AdminHandler
}

// NewDeps wires repositories, services and handlers. rdb may be nil.
func NewDeps(db *sqlx.DB, rdb *redis.Client, cfg config.Config) *Deps {
	store := repos.NewStore(db)
	catRepo := repos.NewCategoryRepo(db)
	supRepo := repos.NewSupplierRepo(db)
	prodRepo := repos.NewProductRepo(db)
	prodCache := repos.NewCachedProductRepo(prodRepo, rdb, cfg.ProductCacheTTL)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	voucherRepo := repos.NewVoucherRepo(db)
	reviewRepo := repos.NewReviewRepo(db)

	authSvc := services.NewAuthService(userRepo)
	userSvc := services.NewUserService(userRepo, orderRepo)
	catalogSvc := services.NewCatalogService(catRepo, supRepo, prodRepo, prodCache)
	invSvc := services.NewInventoryService(invRepo, prodCache)
	cartSvc := services.NewCartService(store, cartRepo, prodRepo)
	checkoutSvc := services.NewCheckoutService(store, cartRepo, prodRepo, orderRepo, prodCache)
	orderSvc := services.NewOrderService(orderRepo)
	voucherSvc := services.NewVoucherService(voucherRepo)
	reviewSvc := services.NewReviewService(reviewRepo, prodCache)

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc, Users: userSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Cart: cartSvc, Checkout: checkoutSvc, Orders: orderSvc},
		VoucherHandler:   &VoucherHandler{Vouchers: voucherSvc},
		ReviewHandler:    &ReviewHandler{Reviews: reviewSvc},
		AdminHandler: &AdminHandler{
			Orders:   orderSvc,
			Catalog:  catalogSvc,
			Inv:      invSvc,
			Users:    userSvc,
			Vouchers: voucherSvc,
		},
	}
}
