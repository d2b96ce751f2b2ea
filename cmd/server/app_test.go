package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-shop/internal/config"
	"github.com/diewo77/go-shop/internal/db"
	"github.com/diewo77/go-shop/internal/gist/gisttest"
	"github.com/diewo77/go-shop/internal/services"
)

func setupApp(t *testing.T) (*App, *gisttest.Server) {
	t.Helper()
	srv := gisttest.NewServer("tok")
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", Path: "file:app_" + t.Name() + "?mode=memory&cache=shared"},
		Sync: config.SyncConfig{
			APIURL:      srv.URL,
			Filename:    "shop_data.json",
			Description: "Shop App Sync Data",
			Timeout:     5 * time.Second,
			ProbeURL:    srv.URL,
			ProbeTTL:    time.Minute,
		},
	}
	dbi, err := db.Open(cfg.Database)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewApp(context.Background(), dbi, cfg), srv
}

func post(app http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	return rr
}

func get(app http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept-Language", "en")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	return rr
}

func cookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, to string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d body=%s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != to {
		t.Fatalf("expected redirect to %s got %s", to, loc)
	}
}

func TestProductLifecycleE2E(t *testing.T) {
	app, _ := setupApp(t)

	rr := post(app, "/products", url.Values{"name": {"Sugar"}, "price": {"10"}, "notes": {"1kg bag"}})
	expectRedirect(t, rr, "/products")
	flash := cookie(rr, "flash")
	if flash == nil {
		t.Fatal("no flash cookie")
	}

	page := get(app, "/products", flash)
	if page.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", page.Code)
	}
	body := page.Body.String()
	for _, want := range []string{"Sugar", "10.00", "1kg bag", "Saved."} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in body=%s", want, body)
		}
	}

	products := app.Inventory.Products("")
	if len(products) != 1 {
		t.Fatalf("expected 1 product got %d", len(products))
	}
	id := products[0].ID

	modal := get(app, "/products?modal=delete&id="+id)
	if !strings.Contains(modal.Body.String(), "/products/"+id+"/delete") {
		t.Fatalf("delete confirmation not rendered: %s", modal.Body.String())
	}

	// without confirmation nothing happens
	expectRedirect(t, post(app, "/products/"+id+"/delete", nil), "/products")
	if len(app.Inventory.Products("")) != 1 {
		t.Fatal("product deleted without confirmation")
	}

	expectRedirect(t, post(app, "/products/"+id+"/delete", url.Values{"confirm": {"yes"}}), "/products")
	if len(app.Inventory.Products("")) != 0 {
		t.Fatal("product not deleted")
	}
}

func TestProductValidationRerendersModal(t *testing.T) {
	app, _ := setupApp(t)

	rr := post(app, "/products", url.Values{"name": {"  "}, "price": {"abc"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `action="/products"`) {
		t.Fatalf("form modal not rendered: %s", body)
	}
	if !strings.Contains(body, "Required") {
		t.Fatalf("missing required message: %s", body)
	}
	if len(app.Inventory.Products("")) != 0 {
		t.Fatal("invalid product stored")
	}
}

func TestEditUnknownProductRedirects(t *testing.T) {
	app, _ := setupApp(t)
	rr := get(app, "/products?modal=edit&id=missing")
	expectRedirect(t, rr, "/products")
	if c := cookie(rr, "flash"); c == nil || !strings.Contains(c.Value, "not_found") {
		t.Fatalf("expected not_found flash, got %v", c)
	}
}

func TestInvoiceFormE2E(t *testing.T) {
	app, _ := setupApp(t)
	ctx := context.Background()
	p, err := app.Inventory.AddProduct(ctx, services.ProductInput{Name: "Sugar", Price: 10})
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	s, err := app.Inventory.AddShop(ctx, services.ShopInput{Name: "Corner Shop", Phone: "0100"})
	if err != nil {
		t.Fatalf("shop: %v", err)
	}

	rr := post(app, "/invoices/form", url.Values{
		"op":             {"add_line"},
		"shop_id":        {s.ID},
		"new_product_id": {p.ID},
		"new_qty":        {"3"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("add_line: expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, `name="product_id" value="`+p.ID+`"`) {
		t.Fatalf("added line missing: %s", body)
	}
	if !strings.Contains(body, "30.00") {
		t.Fatalf("live total missing: %s", body)
	}
	if len(app.Inventory.Invoices("")) != 0 {
		t.Fatal("add_line must not save")
	}

	// saving without a shop keeps the draft open
	rr = post(app, "/invoices/form", url.Values{"op": {"save"}, "product_id": {p.ID}, "qty": {"3"}})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}

	rr = post(app, "/invoices/form", url.Values{"op": {"save"}, "shop_id": {s.ID}, "product_id": {p.ID}, "qty": {"3"}})
	expectRedirect(t, rr, "/invoices")
	invoices := app.Inventory.Invoices("")
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice got %d", len(invoices))
	}
	if invoices[0].Total != 30 || invoices[0].ShopName != "Corner Shop" {
		t.Fatalf("unexpected invoice %+v", invoices[0])
	}

	view := get(app, "/invoices?modal=view&id="+invoices[0].ID)
	if !strings.Contains(view.Body.String(), "Corner Shop") {
		t.Fatalf("invoice detail missing: %s", view.Body.String())
	}

	expectRedirect(t, post(app, "/invoices/"+invoices[0].ID+"/delete", url.Values{"confirm": {"yes"}}), "/invoices")
	if len(app.Inventory.Invoices("")) != 0 {
		t.Fatal("invoice not deleted")
	}
}

func TestUnknownRouteShowsProducts(t *testing.T) {
	app, _ := setupApp(t)
	rr := get(app, "/does-not-exist")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `href="/products" class="active"`) {
		t.Fatalf("products tab not active: %s", rr.Body.String())
	}
}

func TestLanguageQueryPersistsCookie(t *testing.T) {
	app, _ := setupApp(t)
	rr := get(app, "/products?lang=ar")
	if !strings.Contains(rr.Body.String(), `dir="rtl"`) {
		t.Fatalf("expected rtl layout: %s", rr.Body.String())
	}
	if c := cookie(rr, "lang"); c == nil || c.Value != "ar" {
		t.Fatalf("lang cookie not set: %v", c)
	}
}

func TestSyncCreateAndPullE2E(t *testing.T) {
	app, srv := setupApp(t)
	ctx := context.Background()
	if _, err := app.Inventory.AddProduct(ctx, services.ProductInput{Name: "Tea", Price: 4.5}); err != nil {
		t.Fatalf("product: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/sync/create", strings.NewReader("token=tok"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Code != "sync_created" || out.Detail == "" {
		t.Fatalf("unexpected status %+v", out)
	}
	content, ok := srv.Content(out.Detail, "shop_data.json")
	if !ok || !strings.Contains(content, "Tea") {
		t.Fatalf("gist content not uploaded: %q", content)
	}

	if err := app.Inventory.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	expectRedirect(t, post(app, "/sync/pull", nil), "/sync")
	if got := app.Inventory.Products(""); len(got) != 1 || got[0].Name != "Tea" {
		t.Fatalf("pull did not restore products: %+v", got)
	}

	page := get(app, "/sync")
	if page.Code != http.StatusOK || !strings.Contains(page.Body.String(), out.Detail) {
		t.Fatalf("sync page missing gist id: %s", page.Body.String())
	}
}

func TestSyncRejectedToken(t *testing.T) {
	app, _ := setupApp(t)
	req := httptest.NewRequest(http.MethodPost, "/sync/create", strings.NewReader("token=bad"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "sync_rejected") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestSettingsClearE2E(t *testing.T) {
	app, _ := setupApp(t)
	if _, err := app.Inventory.AddProduct(context.Background(), services.ProductInput{Name: "Salt", Price: 1}); err != nil {
		t.Fatalf("product: %v", err)
	}
	expectRedirect(t, post(app, "/settings/clear", nil), "/settings")
	if len(app.Inventory.Products("")) != 1 {
		t.Fatal("cleared without confirmation")
	}
	expectRedirect(t, post(app, "/settings/clear", url.Values{"confirm": {"yes"}}), "/products")
	if len(app.Inventory.Products("")) != 0 {
		t.Fatal("data not cleared")
	}
}

func TestHealthEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	for _, path := range []string{"/health", "/healthz"} {
		rr := get(app, path)
		if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
			t.Fatalf("%s: got %d %s", path, rr.Code, rr.Body.String())
		}
	}
}

func TestLiveTotalAPI(t *testing.T) {
	app, _ := setupApp(t)
	p, err := app.Inventory.AddProduct(context.Background(), services.ProductInput{Name: "Rice", Price: 0.1})
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	body := `{"items":[{"productId":"` + p.ID + `","qty":3},{"productId":"gone","qty":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/total", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Total   float64 `json:"total"`
		Unknown bool    `json:"unknown"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 0.3 || !out.Unknown {
		t.Fatalf("unexpected total %+v", out)
	}
}

func TestLiveTotalKeepsShownPrice(t *testing.T) {
	app, _ := setupApp(t)
	p, err := app.Inventory.AddProduct(context.Background(), services.ProductInput{Name: "Sugar", Price: 12})
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	body := `{"items":[{"productId":"` + p.ID + `","qty":1,"name":"Sugar","price":10},{"productId":"` + p.ID + `","qty":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/total", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", rr.Code, rr.Body.String())
	}
	var out struct {
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 22 {
		t.Fatalf("expected 22 got %v", out.Total)
	}
}

func TestStateDownload(t *testing.T) {
	app, _ := setupApp(t)
	rr := get(app, "/api/state?download=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "shop_data.json") {
		t.Fatalf("missing attachment header")
	}
	if !strings.Contains(rr.Body.String(), `"products":[]`) {
		t.Fatalf("unexpected state %s", rr.Body.String())
	}
}

func TestServiceWorkerServedFromRoot(t *testing.T) {
	app, _ := setupApp(t)
	rr := get(app, "/service-worker.js")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if rr.Header().Get("Cache-Control") != "no-cache" {
		t.Fatalf("service worker must not be cached")
	}
}
