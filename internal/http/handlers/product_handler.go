package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/log"
	"onlinestore/internal/services"
	"onlinestore/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var catID int64
	if raw := c.Query("category"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return badRequest(c, "category", "invalid category")
		}
		catID = id
	}
	products, err := h.Catalog.ListProducts(c.UserContext(), catID, c.QueryInt("page", 1), c.QueryInt("size", 12))
	if err != nil {
		return fail(c, "product.list", err)
	}
	return c.JSON(products)
}

// GET /products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id, false)
	if err != nil {
		return fail(c, "product.detail", err)
	}
	return c.JSON(p)
}
