package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, "category.list", err)
	}
	return c.JSON(cats)
}

// GET /categories/:id/products
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	catID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "category", "invalid category")
	}
	products, err := h.Catalog.ListProducts(c.UserContext(), catID, c.QueryInt("page", 1), c.QueryInt("size", 12))
	if err != nil {
		return fail(c, "category.products", err)
	}
	return c.JSON(products)
}
