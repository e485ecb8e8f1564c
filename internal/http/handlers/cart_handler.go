package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/domain"
	"onlinestore/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

// Quantity is a pointer so an explicit 0 is told apart from a missing field.
type cartItemInput struct {
	ProductID int64 `json:"product_id" form:"product_id"`
	Quantity  *int  `json:"quantity" form:"quantity"`
}

type cartView struct {
	Cart    domain.Cart        `json:"cart"`
	Items   []domain.CartLine  `json:"items"`
	Summary domain.CartSummary `json:"summary"`
}

func (h *CartHandler) cart(c *fiber.Ctx) (domain.Cart, error) {
	return h.Cart.GetOrCreateCart(c.UserContext(), currentUser(c))
}

func (h *CartHandler) view(c *fiber.Ctx, cart domain.Cart) error {
	lines, err := h.Cart.Lines(c.UserContext(), cart)
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cartView{Cart: cart, Items: lines, Summary: domain.Summarize(lines)})
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cart, err := h.cart(c)
	if err != nil {
		return fail(c, "cart.load", err)
	}
	return h.view(c, cart)
}

// POST /cart/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in cartItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if in.ProductID <= 0 {
		return badRequest(c, "product_id", "missing product_id")
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	cart, err := h.cart(c)
	if err != nil {
		return fail(c, "cart.load", err)
	}
	if _, err := h.Cart.AddItem(c.UserContext(), cart, in.ProductID, qty); err != nil {
		return fail(c, "cart.add", err)
	}
	return h.view(c, cart)
}

// PATCH /cart/items/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	itemID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid item id")
	}
	var in cartItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if in.Quantity == nil {
		return badRequest(c, "quantity", "missing quantity")
	}
	cart, err := h.cart(c)
	if err != nil {
		return fail(c, "cart.load", err)
	}
	if _, err := h.Cart.UpdateQuantity(c.UserContext(), cart, itemID, *in.Quantity); err != nil {
		return fail(c, "cart.update", err)
	}
	return h.view(c, cart)
}

// DELETE /cart/items/:id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	itemID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid item id")
	}
	cart, err := h.cart(c)
	if err != nil {
		return fail(c, "cart.load", err)
	}
	if err := h.Cart.RemoveItem(c.UserContext(), cart, itemID); err != nil {
		return fail(c, "cart.remove", err)
	}
	return h.view(c, cart)
}

// DELETE /cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cart, err := h.cart(c)
	if err != nil {
		return fail(c, "cart.load", err)
	}
	if err := h.Cart.ClearCart(c.UserContext(), cart); err != nil {
		return fail(c, "cart.clear", err)
	}
	return h.view(c, cart)
}
