package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{db: db} }

// Row used by admin inventory pages
type InventoryRow struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	Stock     int    `db:"stock" json:"stock"`
	Published bool   `db:"published" json:"published"`
	Reserved  int    `db:"reserved" json:"reserved"` // quantity sitting in carts
}

// ListAll returns every product's stock next to the quantity currently held
// in carts, lowest stock first. threshold < 0 means no filter.
func (r *InventoryRepo) ListAll(ctx context.Context, threshold int) ([]InventoryRow, error) {
	rows := []InventoryRow{}
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT p.id AS product_id, p.name, p.stock, p.published,
		       COALESCE((SELECT SUM(ci.quantity) FROM cart_items ci WHERE ci.product_id = p.id), 0) AS reserved
		FROM products p
		WHERE ? < 0 OR p.stock <= ?
		ORDER BY p.stock, p.name
	`, threshold, threshold)
	return rows, err
}
