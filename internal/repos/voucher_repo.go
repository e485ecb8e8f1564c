package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type VoucherRepo struct{ db sqlx.ExtContext }

func NewVoucherRepo(db sqlx.ExtContext) *VoucherRepo { return &VoucherRepo{db: db} }

const voucherCols = `id, code, discount_percent, start_date, end_date, active`

func (r *VoucherRepo) List(ctx context.Context) ([]domain.Voucher, error) {
	out := []domain.Voucher{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT `+voucherCols+` FROM vouchers ORDER BY start_date DESC, id DESC`)
	return out, err
}

func (r *VoucherRepo) Get(ctx context.Context, id int64) (domain.Voucher, error) {
	var v domain.Voucher
	err := sqlx.GetContext(ctx, r.db, &v, `SELECT `+voucherCols+` FROM vouchers WHERE id = ?`, id)
	return v, err
}

func (r *VoucherRepo) ByCode(ctx context.Context, code string) (domain.Voucher, error) {
	var v domain.Voucher
	err := sqlx.GetContext(ctx, r.db, &v, `SELECT `+voucherCols+` FROM vouchers WHERE UPPER(code) = UPPER(?)`, code)
	return v, err
}

func (r *VoucherRepo) Create(ctx context.Context, v *domain.Voucher) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO vouchers(code, discount_percent, start_date, end_date, active)
		VALUES(?, ?, ?, ?, ?)
	`, v.Code, v.DiscountPercent, v.StartDate, v.EndDate, v.Active)
	if err != nil {
		return unique(err)
	}
	v.ID, err = res.LastInsertId()
	return err
}

func (r *VoucherRepo) Update(ctx context.Context, v domain.Voucher) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vouchers SET code = ?, discount_percent = ?, start_date = ?, end_date = ?, active = ?
		WHERE id = ?
	`, v.Code, v.DiscountPercent, v.StartDate, v.EndDate, v.Active, v.ID)
	return mustAffect(res, err)
}

func (r *VoucherRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vouchers WHERE id = ?`, id)
	return mustAffect(res, err)
}
