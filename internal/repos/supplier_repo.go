package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type SupplierRepo struct{ db sqlx.ExtContext }

func NewSupplierRepo(db sqlx.ExtContext) *SupplierRepo { return &SupplierRepo{db: db} }

func (r *SupplierRepo) List(ctx context.Context) ([]domain.Supplier, error) {
	out := []domain.Supplier{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT id, name, quantity FROM suppliers ORDER BY name`)
	return out, err
}

func (r *SupplierRepo) Get(ctx context.Context, id int64) (domain.Supplier, error) {
	var s domain.Supplier
	err := sqlx.GetContext(ctx, r.db, &s, `SELECT id, name, quantity FROM suppliers WHERE id = ?`, id)
	return s, err
}

func (r *SupplierRepo) Create(ctx context.Context, s *domain.Supplier) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO suppliers(name, quantity) VALUES(?, ?)`, s.Name, s.Quantity)
	if err != nil {
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r *SupplierRepo) Update(ctx context.Context, s domain.Supplier) error {
	res, err := r.db.ExecContext(ctx, `UPDATE suppliers SET name = ?, quantity = ? WHERE id = ?`, s.Name, s.Quantity, s.ID)
	return mustAffect(res, err)
}

func (r *SupplierRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	return mustAffect(res, err)
}
