package log_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"onlinestore/internal/domain"
	applog "onlinestore/internal/log"
)

func TestRequestFieldsAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(zap.NewNop()) })

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("user", &domain.User{ID: 42})
		applog.Audit(c, "order.confirm", map[string]any{"order_id": int64(7)})
		applog.Error(c, "order.confirm.fail", errors.New("boom"), nil)
		return c.SendStatus(fiber.StatusOK)
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/x", nil)); err != nil {
		t.Fatal(err)
	}

	audit := logs.FilterMessage("order.confirm").All()
	if len(audit) != 1 {
		t.Fatalf("want 1 audit entry, got %d", len(audit))
	}
	m := audit[0].ContextMap()
	if m["kind"] != "audit" || m["user_id"] != int64(42) || m["order_id"] != int64(7) {
		t.Fatalf("unexpected fields: %+v", m)
	}
	if _, ok := m["req_id"]; !ok || m["path"] != "/x" {
		t.Fatalf("request fields missing: %+v", m)
	}

	failed := logs.FilterMessage("order.confirm.fail").All()
	if len(failed) != 1 || failed[0].Level != zapcore.ErrorLevel {
		t.Fatalf("want one error entry, got %+v", failed)
	}
	if failed[0].ContextMap()["error"] != "boom" {
		t.Fatalf("error field: %+v", failed[0].ContextMap())
	}
}
