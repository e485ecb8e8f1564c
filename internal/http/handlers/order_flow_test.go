package handlers_test

import (
	"fmt"
	"math"
	"net/http"
	"testing"

	"onlinestore/internal/domain"
)

type cartBody struct {
	Items   []domain.CartLine  `json:"items"`
	Summary domain.CartSummary `json:"summary"`
}

type orderBody struct {
	Order domain.Order       `json:"order"`
	Items []domain.OrderLine `json:"items"`
}

func TestCheckoutFlow(t *testing.T) {
	app, _ := newApp(t)
	logs := observe(t)
	sid := login(t, app, "alice@onlinestore.test")

	resp, body := do(t, app, "POST", "/cart/items", sid, map[string]any{"product_id": galaxyID, "quantity": 2})
	expect(t, resp, body, http.StatusOK)
	resp, body = do(t, app, "POST", "/cart/items", sid, map[string]any{"product_id": galaxyID, "quantity": 1})
	expect(t, resp, body, http.StatusOK)

	cart := decode[cartBody](t, body)
	if len(cart.Items) != 1 || cart.Summary.TotalItems != 3 || cart.Summary.TotalAmount != 3*9490000 {
		t.Fatalf("bad cart: %+v", cart)
	}

	resp, body = do(t, app, "POST", "/checkout", sid, nil)
	expect(t, resp, body, http.StatusCreated)
	placed := decode[struct {
		Order domain.Order       `json:"order"`
		Items []domain.OrderItem `json:"items"`
	}](t, body)
	if placed.Order.Status != domain.StatusPending || placed.Order.TotalAmount != 3*9490000 || len(placed.Items) != 1 {
		t.Fatalf("bad order: %+v", placed)
	}
	if logs.FilterMessage("order.place").Len() != 1 {
		t.Fatal("missing order.place audit entry")
	}

	resp, body = do(t, app, "GET", "/cart", sid, nil)
	expect(t, resp, body, http.StatusOK)
	if c := decode[cartBody](t, body); len(c.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", c)
	}

	resp, body = do(t, app, "GET", fmt.Sprintf("/api/v1/availability?productId=%d", galaxyID), "", nil)
	expect(t, resp, body, http.StatusOK)
	if a := decode[map[string]any](t, body); a["qty"].(float64) != 9 {
		t.Fatalf("want stock 9 after checkout, got %v", a)
	}

	path := fmt.Sprintf("/orders/%d", placed.Order.ID)
	resp, body = do(t, app, "POST", path+"/confirm", sid, map[string]string{"address": " ", "phone": "555"})
	expect(t, resp, body, http.StatusBadRequest)
	resp, body = do(t, app, "POST", path+"/confirm", sid, map[string]string{"address": "12 Le Loi", "phone": "0901234567"})
	expect(t, resp, body, http.StatusOK)

	resp, body = do(t, app, "GET", path, sid, nil)
	expect(t, resp, body, http.StatusOK)
	got := decode[orderBody](t, body)
	if got.Order.Status != domain.StatusConfirmed || got.Order.Address != "12 Le Loi" || got.Items[0].ProductName != "Galaxy A55" {
		t.Fatalf("bad order view: %+v", got)
	}

	resp, body = do(t, app, "GET", "/orders", sid, nil)
	expect(t, resp, body, http.StatusOK)
	if hist := decode[[]domain.Order](t, body); len(hist) != 1 {
		t.Fatalf("want 1 order in history, got %d", len(hist))
	}
}

func TestCartErrorsMapToStatus(t *testing.T) {
	app, _ := newApp(t)
	sid := login(t, app, "alice@onlinestore.test")

	cases := []struct {
		name string
		body map[string]any
		code int
	}{
		{"over stock", map[string]any{"product_id": thinkpad, "quantity": 4}, http.StatusConflict},
		{"unpublished", map[string]any{"product_id": leatherID, "quantity": 1}, http.StatusConflict},
		{"unknown product", map[string]any{"product_id": 999, "quantity": 1}, http.StatusNotFound},
		{"negative qty", map[string]any{"product_id": galaxyID, "quantity": -2}, http.StatusBadRequest},
		{"explicit zero qty", map[string]any{"product_id": galaxyID, "quantity": 0}, http.StatusBadRequest},
		{"missing product", map[string]any{"quantity": 1}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, app, "POST", "/cart/items", sid, tc.body)
			expect(t, resp, body, tc.code)
		})
	}

	resp, body := do(t, app, "POST", "/cart/items", sid, map[string]any{"product_id": thinkpad, "quantity": 4})
	errBody := decode[map[string]any](t, body)
	if errBody["available"].(float64) != 3 || errBody["requested"].(float64) != 4 {
		t.Fatalf("want requested/available in body, got %v (%d)", errBody, resp.StatusCode)
	}

	resp, body = do(t, app, "POST", "/checkout", sid, nil)
	expect(t, resp, body, http.StatusConflict)

	// omitted quantity means one; a huge top-up is a stock error, not a server error
	resp, body = do(t, app, "POST", "/cart/items", sid, map[string]any{"product_id": galaxyID})
	expect(t, resp, body, http.StatusOK)
	if c := decode[cartBody](t, body); c.Summary.TotalItems != 1 {
		t.Fatalf("want default quantity 1, got %+v", c.Summary)
	}
	resp, body = do(t, app, "POST", "/cart/items", sid, map[string]any{"product_id": galaxyID, "quantity": int64(math.MaxInt64)})
	expect(t, resp, body, http.StatusConflict)
}

func TestCartItemUpdateAndRemove(t *testing.T) {
	app, _ := newApp(t)
	sid := login(t, app, "alice@onlinestore.test")

	_, body := do(t, app, "POST", "/cart/items", sid, map[string]any{"product_id": iphoneID, "quantity": 1})
	item := decode[cartBody](t, body).Items[0]
	path := fmt.Sprintf("/cart/items/%d", item.ID)

	resp, body := do(t, app, "PATCH", path, sid, map[string]any{})
	expect(t, resp, body, http.StatusBadRequest)
	resp, body = do(t, app, "PATCH", path, sid, map[string]any{"quantity": 6})
	expect(t, resp, body, http.StatusConflict)
	resp, body = do(t, app, "PATCH", path, sid, map[string]any{"quantity": 5})
	expect(t, resp, body, http.StatusOK)
	if c := decode[cartBody](t, body); c.Summary.TotalItems != 5 {
		t.Fatalf("want 5 items, got %+v", c.Summary)
	}

	// bob cannot touch alice's line
	bob := login(t, app, "bob@onlinestore.test")
	resp, body = do(t, app, "PATCH", path, bob, map[string]any{"quantity": 1})
	expect(t, resp, body, http.StatusNotFound)

	resp, body = do(t, app, "DELETE", path, sid, nil)
	expect(t, resp, body, http.StatusOK)
	if c := decode[cartBody](t, body); len(c.Items) != 0 {
		t.Fatalf("line not removed: %+v", c)
	}
	resp, body = do(t, app, "DELETE", "/cart", sid, nil)
	expect(t, resp, body, http.StatusOK)
}

func TestOrderOwnership(t *testing.T) {
	app, _ := newApp(t)
	logs := observe(t)
	alice := login(t, app, "alice@onlinestore.test")
	do(t, app, "POST", "/cart/items", alice, map[string]any{"product_id": galaxyID, "quantity": 1})
	_, body := do(t, app, "POST", "/checkout", alice, nil)
	id := decode[orderBody](t, body).Order.ID
	path := fmt.Sprintf("/orders/%d", id)

	bob := login(t, app, "bob@onlinestore.test")
	resp, body := do(t, app, "GET", path, bob, nil)
	expect(t, resp, body, http.StatusNotFound)
	resp, body = do(t, app, "POST", path+"/cancel", bob, nil)
	expect(t, resp, body, http.StatusNotFound)
	if logs.FilterMessage("access.denied.order").Len() != 2 {
		t.Fatalf("want 2 access.denied.order entries, got %d", logs.FilterMessage("access.denied.order").Len())
	}

	admin := login(t, app, "admin@onlinestore.test")
	resp, body = do(t, app, "GET", path, admin, nil)
	expect(t, resp, body, http.StatusOK)

	resp, body = do(t, app, "POST", path+"/cancel", alice, nil)
	expect(t, resp, body, http.StatusOK)
	resp, body = do(t, app, "POST", path+"/cancel", alice, nil)
	expect(t, resp, body, http.StatusConflict)
}

func TestRequiresLogin(t *testing.T) {
	app, _ := newApp(t)
	for _, r := range []struct{ method, path string }{
		{"GET", "/cart"},
		{"POST", "/checkout"},
		{"GET", "/orders"},
		{"GET", "/me"},
	} {
		resp, body := do(t, app, r.method, r.path, "", nil)
		expect(t, resp, body, http.StatusUnauthorized)
		resp, body = do(t, app, r.method, r.path, "stale-sid", nil)
		expect(t, resp, body, http.StatusUnauthorized)
	}
}
