package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
	"onlinestore/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// GET /products/:id/reviews
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, "review.list", services.ErrNotFound)
	}
	rs, err := h.Reviews.ListByProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "review.list", err)
	}
	return c.JSON(fiber.Map{
		"reviews": rs,
		"count":   len(rs),
		"average": domain.AverageRating(rs),
	})
}

// POST /products/:id/reviews
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return fail(c, "review.submit", services.ErrNotFound)
	}
	var in services.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	rv, err := h.Reviews.Submit(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		return fail(c, "review.submit", err)
	}
	applog.Audit(c, "review.submit", map[string]any{"product_id": id, "review_id": rv.ID, "rating": rv.Rating})
	return c.Status(fiber.StatusCreated).JSON(rv)
}
