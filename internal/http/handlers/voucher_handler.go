package handlers

import (
	"github.com/gofiber/fiber/v2"

	"onlinestore/internal/services"
	"onlinestore/internal/validate"
)

type VoucherHandler struct {
	Vouchers *services.VoucherService
}

// GET /vouchers/:code reports whether a code is usable today.
func (h *VoucherHandler) Lookup(c *fiber.Ctx) error {
	code, ok := validate.Name(c.Params("code"), 50)
	if !ok {
		return badRequest(c, "code", "invalid voucher code")
	}
	v, err := h.Vouchers.Lookup(c.UserContext(), code)
	if err != nil {
		return fail(c, "voucher.lookup", err)
	}
	return c.JSON(v)
}
