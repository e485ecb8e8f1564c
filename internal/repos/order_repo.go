package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) WithTx(tx *sqlx.Tx) *OrderRepo { return &OrderRepo{db: tx} }

const orderCols = `id, user_id, order_date, total_amount, status, address, phone`

// Create inserts a new order header and sets o.ID.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders (user_id, order_date, total_amount, status, address, phone)
	  VALUES (?, ?, ?, ?, ?, ?)
	`, o.UserID, o.OrderDate, o.TotalAmount, o.Status, o.Address, o.Phone)
	if err != nil {
		return err
	}
	o.ID, err = res.LastInsertId()
	return err
}

// InsertItem inserts a single line item and sets it.ID.
func (r *OrderRepo) InsertItem(ctx context.Context, it *domain.OrderItem) error {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO order_items(order_id, product_id, voucher_id, quantity, unit_price)
	  VALUES(?, ?, ?, ?, ?)
	`, it.OrderID, it.ProductID, it.VoucherID, it.Quantity, it.UnitPrice)
	if err != nil {
		return err
	}
	it.ID, err = res.LastInsertId()
	return err
}

func (r *OrderRepo) Get(ctx context.Context, orderID int64) (domain.Order, error) {
	var o domain.Order
	err := sqlx.GetContext(ctx, r.db, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID)
	return o, err
}

// Items returns the order's lines in the order they were written.
func (r *OrderRepo) Items(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	out := []domain.OrderLine{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.voucher_id, oi.quantity, oi.unit_price,
		       p.name AS product_name
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.id
	`, orderID)
	return out, err
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE user_id = ?
		ORDER BY order_date DESC, id DESC
	`, userID)
	return out, err
}

// List returns the latest orders, optionally restricted to one status.
func (r *OrderRepo) List(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	var err error
	if status == "" {
		err = sqlx.SelectContext(ctx, r.db, &out, `
			SELECT `+orderCols+` FROM orders ORDER BY order_date DESC, id DESC LIMIT ?`, limit)
	} else {
		err = sqlx.SelectContext(ctx, r.db, &out, `
			SELECT `+orderCols+` FROM orders WHERE status = ? ORDER BY order_date DESC, id DESC LIMIT ?`,
			status, limit)
	}
	return out, err
}

// SwapStatus moves the order from one status to another only if it is still
// in from. ok is false when the order moved on or does not exist.
func (r *OrderRepo) SwapStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (ok bool, err error) {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Confirm writes the delivery contact and moves a Pending order to Confirmed.
func (r *OrderRepo) Confirm(ctx context.Context, id int64, address, phone string) (ok bool, err error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET address = ?, phone = ?, status = ?
		WHERE id = ? AND status = ?
	`, address, phone, domain.StatusConfirmed, id, domain.StatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Delete removes the order; its items go with it by cascade.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return mustAffect(res, err)
}

func (r *OrderRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID)
	return n, err
}

// Stats counts orders per status and sums revenue over non-cancelled orders.
func (r *OrderRepo) Stats(ctx context.Context) (domain.OrderStats, error) {
	var rows []struct {
		Status domain.OrderStatus `db:"status"`
		N      int                `db:"n"`
		Amount int64              `db:"amount"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT status, COUNT(*) AS n, COALESCE(SUM(total_amount), 0) AS amount
		FROM orders GROUP BY status
	`); err != nil {
		return domain.OrderStats{}, err
	}
	st := domain.OrderStats{ByStatus: map[domain.OrderStatus]int{}}
	for _, r := range rows {
		st.Total += r.N
		st.ByStatus[r.Status] = r.N
		if r.Status != domain.StatusCancelled {
			st.Revenue += r.Amount
		}
	}
	return st, nil
}
