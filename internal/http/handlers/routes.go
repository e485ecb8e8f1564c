package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "onlinestore/internal/log"
)

// ErrorHandler answers errors that escaped a handler without leaking
// internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c.Status(fiber.StatusInternalServerError), "server.error", err, nil)
	return c.JSON(fiber.Map{"error": "Something went wrong. Please try again."})
}

// Register mounts every route on app.
func Register(app *fiber.App, d *Deps) {
	app.Use(LoadUser(d.Auth))

	// Public catalog
	app.Get("/categories", d.CategoryHandler.List)
	app.Get("/categories/:id/products", d.CategoryHandler.Products)
	app.Get("/products", d.ProductHandler.List)
	app.Get("/products/:id", d.ProductHandler.Detail)
	app.Get("/products/:id/reviews", d.ReviewHandler.List)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), d.SearchHandler.Search)
	app.Get("/vouchers/:code", d.VoucherHandler.Lookup)

	api := app.Group("/api/v1")
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, d.InventoryHandler.Check)

	// Auth (login throttled)
	app.Post("/register", d.AuthHandler.Register)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	user := RequireUser(d.Auth)
	app.Get("/me", user, d.AuthHandler.Me)
	app.Post("/products/:id/reviews", user, d.ReviewHandler.Submit)

	// Cart & orders
	app.Get("/cart", user, d.CartHandler.View)
	app.Post("/cart/items", user, d.CartHandler.Add)
	app.Patch("/cart/items/:id", user, d.CartHandler.Update)
	app.Delete("/cart/items/:id", user, d.CartHandler.Remove)
	app.Delete("/cart", user, d.CartHandler.Clear)
	app.Post("/checkout", user, d.OrderHandler.Place)
	app.Get("/orders", user, d.OrderHandler.History)
	app.Get("/orders/:id", user, d.OrderHandler.View)
	app.Post("/orders/:id/confirm", user, d.OrderHandler.Confirm)
	app.Post("/orders/:id/cancel", user, d.OrderHandler.Cancel)

	// Admin
	a := d.AdminHandler
	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/stats", a.Stats)
	admin.Get("/orders", a.ListOrders)
	admin.Get("/orders/:id", a.ViewOrder)
	admin.Post("/orders/:id/status", a.UpdateOrderStatus)
	admin.Delete("/orders/:id", a.DeleteOrder)
	admin.Get("/inventory", a.Inventory)

	admin.Get("/products", a.ListProducts)
	admin.Get("/products/:id", a.GetProduct)
	admin.Post("/products", a.CreateProduct)
	admin.Put("/products/:id", a.UpdateProduct)
	admin.Post("/products/:id/stock", a.SetStock)
	admin.Post("/products/:id/publish", a.SetPublished(true))
	admin.Post("/products/:id/unpublish", a.SetPublished(false))
	admin.Delete("/products/:id", a.DeleteProduct)

	admin.Post("/categories", a.CreateCategory)
	admin.Put("/categories/:id", a.RenameCategory)
	admin.Delete("/categories/:id", a.DeleteCategory)

	admin.Get("/suppliers", a.ListSuppliers)
	admin.Post("/suppliers", a.CreateSupplier)
	admin.Put("/suppliers/:id", a.UpdateSupplier)
	admin.Delete("/suppliers/:id", a.DeleteSupplier)

	admin.Get("/vouchers", a.ListVouchers)
	admin.Post("/vouchers", a.CreateVoucher)
	admin.Put("/vouchers/:id", a.UpdateVoucher)
	admin.Delete("/vouchers/:id", a.DeleteVoucher)

	admin.Get("/users", a.ListUsers)
	admin.Post("/users/:id/active", a.SetUserActive)
	admin.Post("/users/:id/role", a.SetUserRole)
	admin.Delete("/users/:id", a.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page not found"})
	})
}
