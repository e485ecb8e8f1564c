package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
	"onlinestore/internal/validate"
)

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

func (s *OrderService) load(ctx context.Context, id int64) (domain.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return o, notFound("order")
	}
	return o, classify("order.get", err)
}

// FinalizeOrderInfo records the delivery contact and confirms a Pending order.
func (s *OrderService) FinalizeOrderInfo(ctx context.Context, orderID int64, address, phone string) (domain.Order, error) {
	addr, ok := validate.Address(address)
	if !ok {
		return domain.Order{}, invalid("address must be 1-%d characters", validate.MaxAddress)
	}
	ph, ok := validate.Phone(phone)
	if !ok {
		return domain.Order{}, invalid("phone must be 1-%d characters", validate.MaxPhone)
	}

	o, err := s.load(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status != domain.StatusPending {
		return domain.Order{}, transitionErr(o.Status, domain.StatusConfirmed)
	}
	swapped, err := s.Orders.Confirm(ctx, orderID, addr, ph)
	if err != nil {
		return domain.Order{}, classify("order.confirm", err)
	}
	if !swapped {
		return s.lostRace(ctx, orderID, domain.StatusConfirmed)
	}
	o.Address, o.Phone, o.Status = addr, ph, domain.StatusConfirmed
	return o, nil
}

// Transition applies an admin status change. Confirmation needs contact
// details and only goes through FinalizeOrderInfo.
func (s *OrderService) Transition(ctx context.Context, orderID int64, to domain.OrderStatus) (domain.Order, error) {
	if to == domain.StatusConfirmed {
		return domain.Order{}, fmt.Errorf("%w: confirmation requires address and phone", ErrInvalidTransition)
	}
	if _, known := domain.ParseStatus(string(to)); !known {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	o, err := s.load(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.Status.CanTransition(to) {
		return domain.Order{}, transitionErr(o.Status, to)
	}
	swapped, err := s.Orders.SwapStatus(ctx, orderID, o.Status, to)
	if err != nil {
		return domain.Order{}, classify("order.transition", err)
	}
	if !swapped {
		return s.lostRace(ctx, orderID, to)
	}
	o.Status = to
	return o, nil
}

// Cancel moves a Pending or Confirmed order to Cancelled. Stock is not
// restored.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (domain.Order, error) {
	return s.Transition(ctx, orderID, domain.StatusCancelled)
}

// Delete removes an order that reached a terminal status.
func (s *OrderService) Delete(ctx context.Context, orderID int64) error {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.Status.Terminal() {
		return fmt.Errorf("%w: order %d is %s, only delivered or cancelled orders can be deleted",
			ErrInvalidTransition, orderID, o.Status)
	}
	return classify("order.delete", s.Orders.Delete(ctx, orderID))
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (domain.Order, []domain.OrderLine, error) {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	lines, err := s.Orders.Items(ctx, orderID)
	if err != nil {
		return domain.Order{}, nil, classify("order.items", err)
	}
	return o, lines, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	out, err := s.Orders.ListByUser(ctx, userID)
	return out, classify("order.list_user", err)
}

// ListAll returns the newest orders; an empty status means every status.
func (s *OrderService) ListAll(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	out, err := s.Orders.List(ctx, status, 0)
	return out, classify("order.list", err)
}

func (s *OrderService) Stats(ctx context.Context) (domain.OrderStats, error) {
	st, err := s.Orders.Stats(ctx)
	return st, classify("order.stats", err)
}

func transitionErr(from, to domain.OrderStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// lostRace reports why a compare-and-set matched no row.
func (s *OrderService) lostRace(ctx context.Context, orderID int64, to domain.OrderStatus) (domain.Order, error) {
	cur, err := s.load(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{}, transitionErr(cur.Status, to)
}
