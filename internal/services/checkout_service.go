package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
	"onlinestore/internal/repos"
)

type CheckoutService struct {
	Store  *repos.Store
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Cache  *repos.CachedProductRepo
	Now    func() time.Time
}

func NewCheckoutService(store *repos.Store, carts *repos.CartRepo, prods *repos.ProductRepo,
	orders *repos.OrderRepo, cache *repos.CachedProductRepo) *CheckoutService {
	return &CheckoutService{Store: store, Carts: carts, Prods: prods, Orders: orders, Cache: cache, Now: time.Now}
}

// Checkout turns the cart into a Pending order. Order, items, stock
// decrements and the cart clear commit together or not at all.
func (s *CheckoutService) Checkout(ctx context.Context, user *domain.User, cart domain.Cart) (domain.Order, []domain.OrderItem, error) {
	if user == nil {
		return domain.Order{}, nil, ErrNotAuthenticated
	}

	var (
		order   domain.Order
		items   []domain.OrderItem
		touched []int64
	)
	err := s.Store.InTx(ctx, func(tx *sqlx.Tx) error {
		carts, prods, orders := s.Carts.WithTx(tx), s.Prods.WithTx(tx), s.Orders.WithTx(tx)

		owned, err := carts.Get(ctx, cart.ID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && owned.UserID != user.ID) {
			return notFound("cart")
		}
		if err != nil {
			return err
		}

		lines, err := carts.Lines(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrCartEmpty
		}

		order = domain.Order{
			UserID:      user.ID,
			OrderDate:   s.Now().UTC().Format(time.RFC3339),
			TotalAmount: domain.Summarize(lines).TotalAmount,
			Status:      domain.StatusPending,
			Address:     domain.PlaceholderAddress,
			Phone:       domain.PlaceholderPhone,
		}
		if err := orders.Create(ctx, &order); err != nil {
			return err
		}

		items = make([]domain.OrderItem, 0, len(lines))
		for _, l := range lines {
			it := domain.OrderItem{
				OrderID:   order.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.Price,
			}
			if err := orders.InsertItem(ctx, &it); err != nil {
				return err
			}
			ok, err := prods.DecrementStock(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				avail, err := prods.Stock(ctx, l.ProductID)
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return err
				}
				return &InsufficientStockError{ProductID: l.ProductID, Requested: l.Quantity, Available: avail}
			}
			items = append(items, it)
			touched = append(touched, l.ProductID)
		}

		return carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		err = classify("checkout", err)
		lvl := zap.InfoLevel
		if errors.Is(err, ErrPersistence) {
			lvl = zap.ErrorLevel
		}
		applog.L().Log(lvl, "checkout.rollback",
			zap.Int64("user_id", user.ID), zap.Int64("cart_id", cart.ID), zap.Error(err))
		return domain.Order{}, nil, err
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, touched...)
	}
	applog.L().Info("checkout.commit",
		zap.Int64("user_id", user.ID),
		zap.Int64("order_id", order.ID),
		zap.Int64("total", order.TotalAmount),
		zap.Int("items", len(items)),
	)
	return order, items, nil
}
