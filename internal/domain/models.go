package domain

import (
	"strings"
	"time"
)

type Category struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Supplier struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// Product prices are whole currency units.
type Product struct {
	ID          int64  `db:"id" json:"id"`
	CategoryID  *int64 `db:"category_id" json:"category_id,omitempty"`
	SupplierID  *int64 `db:"supplier_id" json:"supplier_id,omitempty"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Price       int64  `db:"price" json:"price"`
	Stock       int    `db:"stock" json:"stock"`
	Published   bool   `db:"published" json:"published"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

const voucherDate = "2006-01-02"

// Voucher is only associated with order items; no discount is applied.
type Voucher struct {
	ID              int64  `db:"id" json:"id"`
	Code            string `db:"code" json:"code"`
	DiscountPercent int    `db:"discount_percent" json:"discount_percent"`
	StartDate       string `db:"start_date" json:"start_date"`
	EndDate         string `db:"end_date" json:"end_date"`
	Active          bool   `db:"active" json:"active"`
}

// ValidAt reports whether the voucher is active and t falls inside its
// inclusive date window.
func (v Voucher) ValidAt(t time.Time) bool {
	if !v.Active {
		return false
	}
	start, err := time.Parse(voucherDate, v.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse(voucherDate, v.EndDate)
	if err != nil {
		return false
	}
	day, _ := time.Parse(voucherDate, t.UTC().Format(voucherDate))
	return !day.Before(start) && !day.After(end)
}

// NormalizeCode upper-cases and trims a voucher code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
