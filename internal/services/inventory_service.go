package services

import (
	"context"
	"database/sql"
	"errors"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
)

const lowStockAt = 5

type InventoryService struct {
	Inv   *repos.InventoryRepo
	Cache *repos.CachedProductRepo
}

func NewInventoryService(inv *repos.InventoryRepo, cache *repos.CachedProductRepo) *InventoryService {
	return &InventoryService{Inv: inv, Cache: cache}
}

// CheckAvailability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
// Unpublished products read as out of stock.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID int64) (domain.Availability, error) {
	p, err := s.Cache.Get(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Availability{}, notFound("product")
	}
	if err != nil {
		return domain.Availability{}, classify("inventory.availability", err)
	}
	qty := p.Stock
	if !p.Published {
		qty = 0
	}
	return availability(qty), nil
}

func availability(qty int) domain.Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockAt:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}
}

// Report lists stock per product; threshold < 0 lists everything.
func (s *InventoryService) Report(ctx context.Context, threshold int) ([]repos.InventoryRow, error) {
	rows, err := s.Inv.ListAll(ctx, threshold)
	return rows, classify("inventory.report", err)
}
