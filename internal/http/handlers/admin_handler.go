package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
	"onlinestore/internal/services"
)

type AdminHandler struct {
	Orders   *services.OrderService
	Catalog  *services.CatalogService
	Inv      *services.InventoryService
	Users    *services.UserService
	Vouchers *services.VoucherService
}

// GET /admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.Orders.Stats(c.UserContext())
	if err != nil {
		return fail(c, "admin.stats.fail", err)
	}
	return c.JSON(st)
}

// GET /admin/orders?status=
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	var status domain.OrderStatus
	if raw := c.Query("status"); raw != "" {
		st, ok := domain.ParseStatus(raw)
		if !ok {
			return badRequest(c, "status", "unknown status")
		}
		status = st
	}
	ords, err := h.Orders.ListAll(c.UserContext(), status)
	if err != nil {
		return fail(c, "admin.orders.list.fail", err)
	}
	return c.JSON(ords)
}

// GET /admin/orders/:id
func (h *AdminHandler) ViewOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	o, lines, err := h.Orders.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "admin.orders.view.fail", err)
	}
	return c.JSON(orderView{Order: o, Items: lines})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	var in struct {
		Status string `json:"status" form:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	status, known := domain.ParseStatus(in.Status)
	if !known {
		return badRequest(c, "status", "unknown status")
	}
	o, err := h.Orders.Transition(c.UserContext(), id, status)
	if err != nil {
		applog.Security(c, "admin.orders.update.fail", map[string]any{"order_id": id, "status": status, "error": err.Error()})
		return fail(c, "admin.orders.update.fail", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.JSON(o)
}

// DELETE /admin/orders/:id
func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	if err := h.Orders.Delete(c.UserContext(), id); err != nil {
		return fail(c, "admin.orders.delete.fail", err)
	}
	applog.Audit(c, "admin.orders.delete", map[string]any{"order_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /admin/inventory?threshold=
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.Report(c.UserContext(), c.QueryInt("threshold", -1))
	if err != nil {
		return fail(c, "admin.inventory.list.fail", err)
	}
	return c.JSON(rows)
}

// GET /admin/products
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	ps, err := h.Catalog.ListAllProducts(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("size", 50))
	if err != nil {
		return fail(c, "admin.products.list.fail", err)
	}
	return c.JSON(ps)
}

// GET /admin/products/:id
func (h *AdminHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id, true)
	if err != nil {
		return fail(c, "admin.products.get.fail", err)
	}
	return c.JSON(p)
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return fail(c, "admin.products.create.fail", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return fail(c, "admin.products.update.fail", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// POST /admin/products/:id/stock
func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var in struct {
		Stock int `json:"stock" form:"stock"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if err := h.Catalog.SetStock(c.UserContext(), id, in.Stock); err != nil {
		return fail(c, "admin.inventory.save.fail", err)
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product_id": id, "stock": in.Stock})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/products/:id/publish and /unpublish
func (h *AdminHandler) SetPublished(published bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badRequest(c, "id", "invalid product id")
		}
		if err := h.Catalog.SetPublished(c.UserContext(), id, published); err != nil {
			return fail(c, "admin.products.publish.fail", err)
		}
		applog.Audit(c, "admin.products.publish", map[string]any{"product_id": id, "published": published})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return fail(c, "admin.products.delete.fail", err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

type nameInput struct {
	Name string `json:"name" form:"name"`
}

// POST /admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var in nameInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), in.Name)
	if err != nil {
		return fail(c, "admin.categories.create.fail", err)
	}
	applog.Audit(c, "admin.categories.create", map[string]any{"category_id": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// PUT /admin/categories/:id
func (h *AdminHandler) RenameCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid category id")
	}
	var in nameInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if err := h.Catalog.RenameCategory(c.UserContext(), id, in.Name); err != nil {
		return fail(c, "admin.categories.rename.fail", err)
	}
	applog.Audit(c, "admin.categories.rename", map[string]any{"category_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// DELETE /admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid category id")
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return fail(c, "admin.categories.delete.fail", err)
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /admin/suppliers
func (h *AdminHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.Catalog.ListSuppliers(c.UserContext())
	if err != nil {
		return fail(c, "admin.suppliers.list.fail", err)
	}
	return c.JSON(out)
}

// POST /admin/suppliers
func (h *AdminHandler) CreateSupplier(c *fiber.Ctx) error {
	var in services.SupplierInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	s, err := h.Catalog.CreateSupplier(c.UserContext(), in)
	if err != nil {
		return fail(c, "admin.suppliers.create.fail", err)
	}
	applog.Audit(c, "admin.suppliers.create", map[string]any{"supplier_id": s.ID})
	return c.Status(fiber.StatusCreated).JSON(s)
}

// PUT /admin/suppliers/:id
func (h *AdminHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid supplier id")
	}
	var in services.SupplierInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	s, err := h.Catalog.UpdateSupplier(c.UserContext(), id, in)
	if err != nil {
		return fail(c, "admin.suppliers.update.fail", err)
	}
	applog.Audit(c, "admin.suppliers.update", map[string]any{"supplier_id": id})
	return c.JSON(s)
}

// DELETE /admin/suppliers/:id
func (h *AdminHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid supplier id")
	}
	if err := h.Catalog.DeleteSupplier(c.UserContext(), id); err != nil {
		return fail(c, "admin.suppliers.delete.fail", err)
	}
	applog.Audit(c, "admin.suppliers.delete", map[string]any{"supplier_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /admin/vouchers
func (h *AdminHandler) ListVouchers(c *fiber.Ctx) error {
	out, err := h.Vouchers.List(c.UserContext())
	if err != nil {
		return fail(c, "admin.vouchers.list.fail", err)
	}
	return c.JSON(out)
}

// POST /admin/vouchers
func (h *AdminHandler) CreateVoucher(c *fiber.Ctx) error {
	var in services.VoucherInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	v, err := h.Vouchers.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "admin.vouchers.create.fail", err)
	}
	applog.Audit(c, "admin.vouchers.create", map[string]any{"voucher_id": v.ID, "code": v.Code})
	return c.Status(fiber.StatusCreated).JSON(v)
}

// PUT /admin/vouchers/:id
func (h *AdminHandler) UpdateVoucher(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid voucher id")
	}
	var in services.VoucherInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	v, err := h.Vouchers.Update(c.UserContext(), id, in)
	if err != nil {
		return fail(c, "admin.vouchers.update.fail", err)
	}
	applog.Audit(c, "admin.vouchers.update", map[string]any{"voucher_id": id})
	return c.JSON(v)
}

// DELETE /admin/vouchers/:id
func (h *AdminHandler) DeleteVoucher(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid voucher id")
	}
	if err := h.Vouchers.Delete(c.UserContext(), id); err != nil {
		return fail(c, "admin.vouchers.delete.fail", err)
	}
	applog.Audit(c, "admin.vouchers.delete", map[string]any{"voucher_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext())
	if err != nil {
		return fail(c, "admin.users.list.fail", err)
	}
	return c.JSON(users)
}

// POST /admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid user id")
	}
	var in struct {
		Active bool `json:"active" form:"active"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if err := h.Users.SetActive(c.UserContext(), id, in.Active); err != nil {
		return fail(c, "admin.users.active.fail", err)
	}
	applog.Audit(c, "admin.users.active", map[string]any{"target_user_id": id, "active": in.Active})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /admin/users/:id/role
func (h *AdminHandler) SetUserRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid user id")
	}
	var in struct {
		Role string `json:"role" form:"role"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body", "invalid request body")
	}
	if err := h.Users.SetRole(c.UserContext(), id, in.Role); err != nil {
		return fail(c, "admin.users.role.fail", err)
	}
	applog.Audit(c, "admin.users.role", map[string]any{"target_user_id": id, "role": in.Role})
	return c.SendStatus(fiber.StatusNoContent)
}

// DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "id", "invalid user id")
	}
	if err := h.Users.Delete(c.UserContext(), id); err != nil {
		return fail(c, "admin.users.delete.fail", err)
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"target_user_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
