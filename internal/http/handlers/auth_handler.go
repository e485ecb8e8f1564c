package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"onlinestore/internal/log"
	"onlinestore/internal/services"
	"onlinestore/internal/validate"
)

type AuthHandler struct {
	Auth  *services.AuthService
	Users *services.UserService
}

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func setSID(c *fiber.Ctx, sid string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  expires,
	})
}

// POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.Registration
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	u, err := h.Users.Register(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrValidationFailed) {
			log.Security(c, "auth.register.fail", map[string]any{"email": in.Email, "reason": err.Error()})
		}
		return fail(c, "auth.register", err)
	}
	log.Audit(c, "auth.register", map[string]any{"email": u.Email, "new_user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u)
}

// POST /login
// A successful login always gets a fresh sid; any sid the client already
// held is unbound.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if !validate.Password(in.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	sid := uuid.NewString()
	u, err := h.Auth.Login(c.UserContext(), sid, email, in.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err != nil {
		return fail(c, "auth.login", err)
	}

	if old := c.Cookies("sid"); old != "" {
		if err := h.Auth.Logout(c.UserContext(), old); err != nil {
			return fail(c, "auth.login", err)
		}
	}
	setSID(c, sid, time.Time{})

	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(u)
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			return fail(c, "auth.logout", err)
		}
	}
	setSID(c, "", time.Now().Add(-1*time.Hour))
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
