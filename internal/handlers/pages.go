package handlers

import (
	"net/http"
	"strings"
)

// Pages dispatches GET requests to the view named by the first path segment.
// Unknown paths, including "/", show products.
type Pages struct {
	Products *ProductHandler
	Shops    *ShopHandler
	Invoices *InvoiceHandler
	Sync     *SyncHandler
	Settings *SettingsHandler
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, _, _ := strings.Cut(strings.Trim(r.URL.Path, "/"), "/")
	switch route {
	case "shops":
		p.Shops.List(w, r)
	case "invoices":
		p.Invoices.List(w, r)
	case "sync":
		p.Sync.Page(w, r)
	case "settings":
		p.Settings.Page(w, r)
	default:
		p.Products.List(w, r)
	}
}
