package services

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
)

type CartService struct {
	Store *repos.Store
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(store *repos.Store, carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Store: store, Carts: carts, Prods: prods}
}

// GetOrCreateCart returns the user's cart, creating it on first use.
func (s *CartService) GetOrCreateCart(ctx context.Context, user *domain.User) (domain.Cart, error) {
	if user == nil {
		return domain.Cart{}, notFound("user")
	}
	c, err := s.Carts.EnsureForUser(ctx, user.ID)
	return c, classify("cart.ensure", err)
}

// AddItem merges qty of productID into the cart. The existing quantity is
// read and written in one transaction; stock is checked, not reserved.
func (s *CartService) AddItem(ctx context.Context, cart domain.Cart, productID int64, qty int) (domain.CartItem, error) {
	if qty <= 0 {
		return domain.CartItem{}, invalid("quantity must be at least 1")
	}
	var item domain.CartItem
	err := s.Store.InTx(ctx, func(tx *sqlx.Tx) error {
		prods, carts := s.Prods.WithTx(tx), s.Carts.WithTx(tx)

		p, err := prods.Get(ctx, productID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("product")
		}
		if err != nil {
			return err
		}
		if !p.Published {
			return ErrProductUnavailable
		}
		have, err := carts.QtyOf(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if have > p.Stock || qty > p.Stock-have {
			requested := have + qty
			if requested < have {
				requested = math.MaxInt
			}
			return &InsufficientStockError{ProductID: productID, Requested: requested, Available: p.Stock}
		}
		item, err = carts.AddQty(ctx, cart.ID, productID, qty)
		return err
	})
	if err != nil {
		return domain.CartItem{}, classify("cart.add", err)
	}
	return item, nil
}

// UpdateQuantity sets an item's quantity; newQty <= 0 removes it and
// returns the zero item.
func (s *CartService) UpdateQuantity(ctx context.Context, cart domain.Cart, itemID int64, newQty int) (domain.CartItem, error) {
	if newQty <= 0 {
		return domain.CartItem{}, s.RemoveItem(ctx, cart, itemID)
	}
	var item domain.CartItem
	err := s.Store.InTx(ctx, func(tx *sqlx.Tx) error {
		carts := s.Carts.WithTx(tx)
		line, err := carts.Line(ctx, cart.ID, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("cart item")
		}
		if err != nil {
			return err
		}
		if newQty > line.Stock {
			return &InsufficientStockError{ProductID: line.ProductID, Requested: newQty, Available: line.Stock}
		}
		if err := carts.SetQty(ctx, cart.ID, itemID, newQty); err != nil {
			return err
		}
		item = line.CartItem
		item.Quantity = newQty
		return nil
	})
	if err != nil {
		return domain.CartItem{}, classify("cart.update", err)
	}
	return item, nil
}

// RemoveItem deletes one item of the cart. Missing items are not an error.
func (s *CartService) RemoveItem(ctx context.Context, cart domain.Cart, itemID int64) error {
	return classify("cart.remove", s.Carts.DeleteItem(ctx, cart.ID, itemID))
}

func (s *CartService) ClearCart(ctx context.Context, cart domain.Cart) error {
	return classify("cart.clear", s.Carts.Clear(ctx, cart.ID))
}

func (s *CartService) Lines(ctx context.Context, cart domain.Cart) ([]domain.CartLine, error) {
	lines, err := s.Carts.Lines(ctx, cart.ID)
	if err != nil {
		return nil, classify("cart.lines", err)
	}
	return lines, nil
}

// Summary is recomputed from storage on every call.
func (s *CartService) Summary(ctx context.Context, cart domain.Cart) (domain.CartSummary, error) {
	lines, err := s.Lines(ctx, cart)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return domain.Summarize(lines), nil
}
