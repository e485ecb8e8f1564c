package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type CategoryRepo struct{ db sqlx.ExtContext }

func NewCategoryRepo(db sqlx.ExtContext) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
  SELECT
    id,
    name,
    COALESCE(created_at,'') AS created_at,
    COALESCE(updated_at,'') AS updated_at
  FROM categories
  ORDER BY name
`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := sqlx.GetContext(ctx, r.db, &c, `
  SELECT id, name, COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at
  FROM categories WHERE id = ?`, id)
	return c, err
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (domain.Category, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO categories(name, created_at) VALUES(?, ?)`, name, now())
	if err != nil {
		return domain.Category{}, unique(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Category{}, err
	}
	return r.Get(ctx, id)
}

func (r *CategoryRepo) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ?, updated_at = ? WHERE id = ?`, name, now(), id)
	return mustAffect(res, err)
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return mustAffect(res, err)
}

func (r *CategoryRepo) ProductCount(ctx context.Context, id int64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM products WHERE category_id = ?`, id)
	return n, err
}

func (r *CategoryRepo) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n,
		`SELECT COUNT(*) FROM categories WHERE LOWER(name) = LOWER(?) AND id != ?`, name, exceptID)
	return n > 0, err
}
