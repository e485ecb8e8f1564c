package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
)

func TestAdminGuard(t *testing.T) {
	app, _ := newApp(t)
	logs := observe(t)

	resp, body := do(t, app, "GET", "/admin/stats", "", nil)
	expect(t, resp, body, http.StatusUnauthorized)

	alice := login(t, app, "alice@onlinestore.test")
	resp, body = do(t, app, "GET", "/admin/stats", alice, nil)
	expect(t, resp, body, http.StatusForbidden)
	if logs.FilterMessage("access.denied.admin").Len() != 1 {
		t.Fatal("forbidden admin access not logged")
	}

	admin := login(t, app, "admin@onlinestore.test")
	resp, body = do(t, app, "GET", "/admin/stats", admin, nil)
	expect(t, resp, body, http.StatusOK)
}

func TestAdminOrderLifecycle(t *testing.T) {
	app, _ := newApp(t)
	logs := observe(t)
	alice := login(t, app, "alice@onlinestore.test")
	admin := login(t, app, "admin@onlinestore.test")

	do(t, app, "POST", "/cart/items", alice, map[string]any{"product_id": iphoneID, "quantity": 2})
	_, body := do(t, app, "POST", "/checkout", alice, nil)
	id := decode[orderBody](t, body).Order.ID
	path := fmt.Sprintf("/admin/orders/%d", id)

	// Confirmed is reachable only through the customer's contact details.
	resp, body := do(t, app, "POST", path+"/status", admin, map[string]string{"status": "Confirmed"})
	expect(t, resp, body, http.StatusConflict)
	resp, body = do(t, app, "POST", path+"/status", admin, map[string]string{"status": "Shipped"})
	expect(t, resp, body, http.StatusConflict)
	resp, body = do(t, app, "POST", path+"/status", admin, map[string]string{"status": "Lost"})
	expect(t, resp, body, http.StatusBadRequest)
	resp, body = do(t, app, "DELETE", path, admin, nil)
	expect(t, resp, body, http.StatusConflict)

	resp, body = do(t, app, "POST", fmt.Sprintf("/orders/%d/confirm", id), alice,
		map[string]string{"address": "1 Main St", "phone": "+84 901 234 567"})
	expect(t, resp, body, http.StatusOK)

	for _, st := range []domain.OrderStatus{domain.StatusShipped, domain.StatusDelivered} {
		resp, body = do(t, app, "POST", path+"/status", admin, map[string]string{"status": string(st)})
		expect(t, resp, body, http.StatusOK)
		if o := decode[domain.Order](t, body); o.Status != st {
			t.Fatalf("want %s, got %s", st, o.Status)
		}
	}
	if logs.FilterMessage("admin.orders.update").Len() != 2 {
		t.Fatal("status updates not audited")
	}

	resp, body = do(t, app, "GET", "/admin/orders?status=Delivered", admin, nil)
	expect(t, resp, body, http.StatusOK)
	if list := decode[[]domain.Order](t, body); len(list) != 1 || list[0].ID != id {
		t.Fatalf("filter by status: %+v", list)
	}

	resp, body = do(t, app, "GET", "/admin/stats", admin, nil)
	expect(t, resp, body, http.StatusOK)
	if st := decode[domain.OrderStats](t, body); st.Revenue != 2*19990000 || st.ByStatus[domain.StatusDelivered] != 1 {
		t.Fatalf("bad stats: %+v", st)
	}

	resp, body = do(t, app, "DELETE", path, admin, nil)
	expect(t, resp, body, http.StatusNoContent)
	resp, body = do(t, app, "GET", path, admin, nil)
	expect(t, resp, body, http.StatusNotFound)
}

func TestAdminCatalog(t *testing.T) {
	app, _ := newApp(t)
	admin := login(t, app, "admin@onlinestore.test")

	resp, body := do(t, app, "POST", "/admin/categories", admin, map[string]string{"name": "Audio"})
	expect(t, resp, body, http.StatusCreated)
	cat := decode[domain.Category](t, body)
	resp, body = do(t, app, "POST", "/admin/categories", admin, map[string]string{"name": "Audio"})
	expect(t, resp, body, http.StatusConflict)

	resp, body = do(t, app, "POST", "/admin/products", admin, map[string]any{"name": "", "price": 10})
	expect(t, resp, body, http.StatusBadRequest)
	resp, body = do(t, app, "POST", "/admin/products", admin, map[string]any{
		"name": "Earbuds", "price": 590000, "stock": 2, "published": true, "category_id": cat.ID,
	})
	expect(t, resp, body, http.StatusCreated)
	p := decode[domain.Product](t, body)

	resp, body = do(t, app, "GET", fmt.Sprintf("/products/%d", p.ID), "", nil)
	expect(t, resp, body, http.StatusOK)

	resp, body = do(t, app, "POST", fmt.Sprintf("/admin/products/%d/unpublish", p.ID), admin, nil)
	expect(t, resp, body, http.StatusNoContent)
	resp, body = do(t, app, "GET", fmt.Sprintf("/products/%d", p.ID), "", nil)
	expect(t, resp, body, http.StatusNotFound)

	resp, body = do(t, app, "POST", fmt.Sprintf("/admin/products/%d/stock", p.ID), admin, map[string]int{"stock": -1})
	expect(t, resp, body, http.StatusBadRequest)

	resp, body = do(t, app, "DELETE", fmt.Sprintf("/admin/categories/%d", cat.ID), admin, nil)
	expect(t, resp, body, http.StatusConflict)
	resp, body = do(t, app, "DELETE", fmt.Sprintf("/admin/products/%d", p.ID), admin, nil)
	expect(t, resp, body, http.StatusNoContent)
	resp, body = do(t, app, "DELETE", fmt.Sprintf("/admin/categories/%d", cat.ID), admin, nil)
	expect(t, resp, body, http.StatusNoContent)

	resp, body = do(t, app, "GET", "/admin/inventory?threshold=3", admin, nil)
	expect(t, resp, body, http.StatusOK)
	for _, row := range decode[[]repos.InventoryRow](t, body) {
		if row.Stock > 3 {
			t.Fatalf("row above threshold: %+v", row)
		}
	}
}
