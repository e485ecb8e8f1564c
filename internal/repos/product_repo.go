package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

// WithTx returns a copy bound to tx.
func (r *ProductRepo) WithTx(tx *sqlx.Tx) *ProductRepo { return &ProductRepo{db: tx} }

const productCols = `
    id, category_id, supplier_id, name, description, price, stock, published,
    created_at, COALESCE(updated_at,'') AS updated_at`

type ProductFilter struct {
	CategoryID    int64
	PublishedOnly bool
	Q             string // lower-cased substring of name/description
	Limit         int
	Offset        int
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if f.PublishedOnly {
		where += ` AND published = 1`
	}
	if f.CategoryID > 0 {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+f.Q+"%", "%"+f.Q+"%")
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	args = append(args, f.Limit, f.Offset)

	out := []domain.Product{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
  SELECT `+productCols+`
  FROM products
  WHERE `+where+`
  ORDER BY id
  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(category_id, supplier_id, name, description, price, stock, published, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, p.CategoryID, p.SupplierID, p.Name, p.Description, p.Price, p.Stock, p.Published, now())
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
	  UPDATE products
	  SET category_id = ?, supplier_id = ?, name = ?, description = ?, price = ?, stock = ?,
	      published = ?, updated_at = ?
	  WHERE id = ?
	`, p.CategoryID, p.SupplierID, p.Name, p.Description, p.Price, p.Stock, p.Published, now(), p.ID)
	return mustAffect(res, err)
}

func (r *ProductRepo) SetStock(ctx context.Context, id int64, stock int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`, stock, now(), id)
	return mustAffect(res, err)
}

func (r *ProductRepo) SetPublished(ctx context.Context, id int64, published bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET published = ?, updated_at = ? WHERE id = ?`, published, now(), id)
	return mustAffect(res, err)
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	return mustAffect(res, err)
}

// DecrementStock subtracts by units only if that many are on hand. ok is
// false when the guard rejected the update.
func (r *ProductRepo) DecrementStock(ctx context.Context, id int64, by int) (ok bool, err error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - ?, updated_at = ?
		WHERE id = ? AND stock >= ?
	`, by, now(), id, by)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Stock returns current stock; sql.ErrNoRows when the product is gone.
func (r *ProductRepo) Stock(ctx context.Context, id int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT stock FROM products WHERE id = ?`, id)
	return n, err
}

// ReferencedByOrders reports whether any order item points at the product.
func (r *ProductRepo) ReferencedByOrders(ctx context.Context, id int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM order_items WHERE product_id = ?`, id)
	return n > 0, err
}
