package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type CartRepo struct{ db sqlx.ExtContext }

func NewCartRepo(db sqlx.ExtContext) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) WithTx(tx *sqlx.Tx) *CartRepo { return &CartRepo{db: tx} }

// EnsureForUser returns the user's cart, creating it on first use. The
// insert is a no-op when a cart already exists, so concurrent callers
// converge on the same row.
func (r *CartRepo) EnsureForUser(ctx context.Context, userID int64) (domain.Cart, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO carts(user_id, created_at) VALUES(?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`, userID, now()); err != nil {
		return domain.Cart{}, err
	}
	var c domain.Cart
	err := sqlx.GetContext(ctx, r.db, &c, `SELECT id, user_id, created_at FROM carts WHERE user_id = ?`, userID)
	return c, err
}

func (r *CartRepo) Get(ctx context.Context, cartID int64) (domain.Cart, error) {
	var c domain.Cart
	err := sqlx.GetContext(ctx, r.db, &c, `SELECT id, user_id, created_at FROM carts WHERE id = ?`, cartID)
	return c, err
}

// Lines returns the cart's items joined to live product rows, in insertion
// order.
func (r *CartRepo) Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	out := []domain.CartLine{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
	  SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
	         p.name AS product_name, p.price, p.stock, p.published
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.id
	`, cartID)
	return out, err
}

// Line returns one item of the cart; sql.ErrNoRows if it is not in this cart.
func (r *CartRepo) Line(ctx context.Context, cartID, itemID int64) (domain.CartLine, error) {
	var l domain.CartLine
	err := sqlx.GetContext(ctx, r.db, &l, `
	  SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
	         p.name AS product_name, p.price, p.stock, p.published
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.cart_id = ? AND ci.id = ?
	`, cartID, itemID)
	return l, err
}

// QtyOf returns the quantity already in the cart for productID, 0 if none.
func (r *CartRepo) QtyOf(ctx context.Context, cartID, productID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `
	  SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE cart_id = ? AND product_id = ?
	`, cartID, productID)
	return n, err
}

// AddQty merges qty into the (cart, product) line, inserting it if absent.
func (r *CartRepo) AddQty(ctx context.Context, cartID, productID int64, qty int) (domain.CartItem, error) {
	var it domain.CartItem
	err := sqlx.GetContext(ctx, r.db, &it, `
		INSERT INTO cart_items(cart_id, product_id, quantity, created_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(cart_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.created_at
		RETURNING id, cart_id, product_id, quantity
	`, cartID, productID, qty, now())
	return it, err
}

func (r *CartRepo) SetQty(ctx context.Context, cartID, itemID int64, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = ?, updated_at = ? WHERE cart_id = ? AND id = ?
	`, qty, now(), cartID, itemID)
	return mustAffect(res, err)
}

func (r *CartRepo) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ? AND id = ?`, cartID, itemID)
	return err
}

func (r *CartRepo) Clear(ctx context.Context, cartID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
