package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
	"onlinestore/internal/validate"
)

type VoucherService struct {
	Vouchers *repos.VoucherRepo
	Now      func() time.Time
}

func NewVoucherService(vouchers *repos.VoucherRepo) *VoucherService {
	return &VoucherService{Vouchers: vouchers, Now: time.Now}
}

type VoucherInput struct {
	Code            string `json:"code" validate:"required,max=50"`
	DiscountPercent int    `json:"discount_percent" validate:"min=1,max=100"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Active          bool   `json:"active"`
}

func (in VoucherInput) toDomain(id int64) (domain.Voucher, error) {
	in.Code = domain.NormalizeCode(in.Code)
	if err := validate.Struct(in); err != nil {
		return domain.Voucher{}, invalid("%v", err)
	}
	// dates are ISO formatted, so string order is date order
	if in.EndDate < in.StartDate {
		return domain.Voucher{}, invalid("end_date must not be before start_date")
	}
	return domain.Voucher{
		ID: id, Code: in.Code, DiscountPercent: in.DiscountPercent,
		StartDate: in.StartDate, EndDate: in.EndDate, Active: in.Active,
	}, nil
}

func (s *VoucherService) List(ctx context.Context) ([]domain.Voucher, error) {
	out, err := s.Vouchers.List(ctx)
	return out, classify("voucher.list", err)
}

func (s *VoucherService) codeTaken(ctx context.Context, code string, exceptID int64) error {
	v, err := s.Vouchers.ByCode(ctx, code)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return classify("voucher.by_code", err)
	case v.ID != exceptID:
		return fmt.Errorf("%w: voucher code %s exists", ErrConflict, code)
	}
	return nil
}

func (s *VoucherService) Create(ctx context.Context, in VoucherInput) (domain.Voucher, error) {
	v, err := in.toDomain(0)
	if err != nil {
		return domain.Voucher{}, err
	}
	if err := s.codeTaken(ctx, v.Code, 0); err != nil {
		return domain.Voucher{}, err
	}
	if err := s.Vouchers.Create(ctx, &v); err != nil {
		return domain.Voucher{}, classify("voucher.create", err)
	}
	return v, nil
}

func (s *VoucherService) Update(ctx context.Context, id int64, in VoucherInput) (domain.Voucher, error) {
	v, err := in.toDomain(id)
	if err != nil {
		return domain.Voucher{}, err
	}
	if err := s.codeTaken(ctx, v.Code, id); err != nil {
		return domain.Voucher{}, err
	}
	if err := s.Vouchers.Update(ctx, v); err != nil {
		return domain.Voucher{}, classify("voucher.update", err)
	}
	return v, nil
}

func (s *VoucherService) Delete(ctx context.Context, id int64) error {
	return classify("voucher.delete", s.Vouchers.Delete(ctx, id))
}

// Lookup returns a voucher by code if it is usable today.
func (s *VoucherService) Lookup(ctx context.Context, code string) (domain.Voucher, error) {
	v, err := s.Vouchers.ByCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		return domain.Voucher{}, classify("voucher.lookup", err)
	}
	if !v.ValidAt(s.Now()) {
		return domain.Voucher{}, notFound("voucher")
	}
	return v, nil
}
