package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
	"onlinestore/internal/services"
)

type OrderHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

type contactInput struct {
	Address string `json:"address" form:"address"`
	Phone   string `json:"phone" form:"phone"`
}

type orderView struct {
	Order domain.Order       `json:"order"`
	Items []domain.OrderLine `json:"items"`
}

// POST /checkout
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	u := currentUser(c)
	cart, err := h.Cart.GetOrCreateCart(c.UserContext(), u)
	if err != nil {
		return fail(c, "checkout.load", err)
	}
	order, items, err := h.Checkout.Checkout(c.UserContext(), u, cart)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"cart_id": cart.ID, "error": err.Error()})
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"total":    order.TotalAmount,
		"items":    len(items),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order, "items": items})
}

// owned loads an order the caller may see. Other users' orders read as
// missing; admins see everything.
func (h *OrderHandler) owned(c *fiber.Ctx) (domain.Order, []domain.OrderLine, bool, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return domain.Order{}, nil, false, fail(c, "order.view", services.ErrNotFound)
	}
	o, lines, err := h.Orders.Get(c.UserContext(), id)
	if err != nil {
		return domain.Order{}, nil, false, fail(c, "order.view", err)
	}
	u := currentUser(c)
	if o.UserID != u.ID && !u.IsAdmin() {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		return domain.Order{}, nil, false, fail(c, "order.view", services.ErrNotFound)
	}
	return o, lines, true, nil
}

// GET /orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	o, lines, ok, err := h.owned(c)
	if !ok {
		return err
	}
	return c.JSON(orderView{Order: o, Items: lines})
}

// GET /orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.ListByUser(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return fail(c, "orders.history.fail", err)
	}
	return c.JSON(orders)
}

// POST /orders/:id/confirm
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	o, _, ok, err := h.owned(c)
	if !ok {
		return err
	}
	var in contactInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	o, err = h.Orders.FinalizeOrderInfo(c.UserContext(), o.ID, in.Address, in.Phone)
	if err != nil {
		return fail(c, "order.confirm", err)
	}
	applog.Audit(c, "order.confirm", map[string]any{"order_id": o.ID})
	return c.JSON(o)
}

// POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	o, _, ok, err := h.owned(c)
	if !ok {
		return err
	}
	o, err = h.Orders.Cancel(c.UserContext(), o.ID)
	if err != nil {
		return fail(c, "order.cancel", err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": o.ID})
	return c.JSON(o)
}
