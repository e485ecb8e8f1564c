package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
	"onlinestore/internal/services"
	"onlinestore/internal/validate"
)

// statusFor maps service errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrValidationFailed):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as JSON. Internal failures are logged and replaced by a
// generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		applog.Error(c.Status(code), action, err, nil)
		return c.JSON(fiber.Map{"error": "Something went wrong. Please try again."})
	}
	body := fiber.Map{"error": err.Error()}
	var se *services.InsufficientStockError
	if errors.As(err, &se) {
		body["product_id"] = se.ProductID
		body["requested"] = se.Requested
		body["available"] = se.Available
	}
	return c.Status(code).JSON(body)
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c.Status(fiber.StatusBadRequest), "validation.fail", map[string]any{"field": field})
	return c.JSON(fiber.Map{"error": msg})
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// paramID reads a positive :name route parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	return validate.ID(c.Params(name))
}
