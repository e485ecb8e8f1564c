package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"onlinestore/internal/config"
	"onlinestore/internal/http/handlers"
	applog "onlinestore/internal/log"
	"onlinestore/internal/repos"
)

const demoPassword = "Passw0rd!"

// Seeded catalog ids.
const (
	galaxyID  = 1 // price 9490000, stock 12
	iphoneID  = 2 // price 19990000, stock 5
	thinkpad  = 3 // stock 3
	leatherID = 5 // unpublished
)

// newApp builds the real router over a seeded in-memory store.
func newApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	handlers.Register(app, handlers.NewDeps(db, nil, config.Config{}))
	return app, db
}

// observe routes the process logger into an in-memory sink for one test.
func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(zap.NewNop()) })
	return logs
}

func do(t *testing.T, app *fiber.App, method, path, sid string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func sidCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c.Value
		}
	}
	return ""
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := do(t, app, "POST", "/login", "", map[string]string{"email": email, "password": demoPassword})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, resp.StatusCode, body)
	}
	sid := sidCookie(resp)
	if sid == "" {
		t.Fatal("no sid cookie")
	}
	return sid
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func expect(t *testing.T, resp *http.Response, body []byte, code int) {
	t.Helper()
	if resp.StatusCode != code {
		t.Fatalf("want %d, got %d: %s", code, resp.StatusCode, body)
	}
}
