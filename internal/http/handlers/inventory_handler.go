package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/services"
	"onlinestore/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), productID)
	if err != nil {
		return fail(c, "inventory.check", err)
	}
	return c.JSON(fiber.Map{
		"product_id": productID,
		"status":     avail.Status,
		"qty":        avail.Qty,
	})
}
