package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
	"onlinestore/internal/services"
)

// world bundles a fresh in-memory store and the services under test.
type world struct {
	db       *sqlx.DB
	prods    *repos.ProductRepo
	orders   *repos.OrderRepo
	carts    *repos.CartRepo
	users    *repos.UserRepo
	cart     *services.CartService
	checkout *services.CheckoutService
	order    *services.OrderService
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := repos.NewStore(db)
	prods := repos.NewProductRepo(db)
	carts := repos.NewCartRepo(db)
	orders := repos.NewOrderRepo(db)
	cache := repos.NewCachedProductRepo(prods, nil, 0)
	return &world{
		db:       db,
		prods:    prods,
		orders:   orders,
		carts:    carts,
		users:    repos.NewUserRepo(db),
		cart:     services.NewCartService(store, carts, prods),
		checkout: services.NewCheckoutService(store, carts, prods, orders, cache),
		order:    services.NewOrderService(orders),
	}
}

func (w *world) user(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, FullName: "Test User", Hash: "x", Role: domain.RoleUser, Active: true}
	if err := w.users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func (w *world) product(t *testing.T, name string, price int64, stock int) domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Price: price, Stock: stock, Published: true}
	if err := w.prods.Create(context.Background(), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func (w *world) stock(t *testing.T, id int64) int {
	t.Helper()
	n, err := w.prods.Stock(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func (w *world) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := w.db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatal(err)
	}
	return n
}
