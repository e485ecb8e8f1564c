package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
	"onlinestore/internal/services"
)

// LoadUser attaches the session's user to the context when there is one.
func LoadUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolveUser(c, auth)
		return c.Next()
	}
}

func resolveUser(c *fiber.Ctx, auth *services.AuthService) *domain.User {
	if u := currentUser(c); u != nil {
		return u
	}
	sid := c.Cookies("sid")
	if sid == "" {
		return nil
	}
	u, err := auth.CurrentUser(c.UserContext(), sid)
	if err != nil || u == nil {
		return nil
	}
	c.Locals("user", u)
	return u
}

// RequireUser rejects requests without a logged-in user.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if resolveUser(c, auth) == nil {
			return fail(c, "auth.required", services.ErrNotAuthenticated)
		}
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := resolveUser(c, auth)
		if u == nil {
			return fail(c, "auth.required", services.ErrNotAuthenticated)
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
		}
		return c.Next()
	}
}
