package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/domain"
	"onlinestore/internal/log"
	"onlinestore/internal/services"
	"onlinestore/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /search?q=&category=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		return c.JSON(fiber.Map{"q": "", "products": []domain.Product{}, "count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter a valid keyword (letters/numbers only)"})
	}
	var catID int64
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return badRequest(c, "category", "Invalid category")
		}
		catID = id
	}

	products, err := h.Catalog.Search(c.UserContext(), q, catID, c.QueryInt("page", 1), 20)
	if err != nil {
		return fail(c, "search.error", err)
	}
	return c.JSON(fiber.Map{"q": q, "category": catID, "products": products, "count": len(products)})
}
