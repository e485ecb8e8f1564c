package services

import (
	"database/sql"
	"errors"
	"fmt"

	"onlinestore/internal/repos"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrValidationFailed   = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrPersistence        = errors.New("persistence failure")
)

// InsufficientStockError reports how much was asked for against what is on
// hand. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

var taxonomy = []error{
	ErrNotAuthenticated, ErrNotFound, ErrProductUnavailable, ErrInsufficientStock,
	ErrCartEmpty, ErrInvalidTransition, ErrValidationFailed, ErrConflict, ErrPersistence,
}

// classify passes taxonomy errors through, maps sql.ErrNoRows to ErrNotFound
// and unique violations to ErrConflict. Anything else becomes ErrPersistence
// keeping the cause.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range taxonomy {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	if errors.Is(err, repos.ErrDuplicate) {
		return fmt.Errorf("%w: %s: already exists", ErrConflict, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
