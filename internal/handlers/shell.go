package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-shop/httpx"
	"github.com/diewo77/go-shop/internal/middleware"
	"github.com/diewo77/go-shop/internal/netstatus"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/diewo77/go-shop/validation"
	"github.com/diewo77/go-shop/view"
)

// Routes are the views, in navigation order.
var Routes = []string{"products", "shops", "invoices", "sync", "settings"}

// Shell holds what every page needs besides its own list: header counters,
// connectivity and sync state.
type Shell struct {
	inv  *services.InventoryService
	sync *services.SyncService
	net  *netstatus.Monitor
}

// NewShell builds the shared page shell. sync and net may be nil.
func NewShell(inv *services.InventoryService, sync *services.SyncService, net *netstatus.Monitor) *Shell {
	return &Shell{inv: inv, sync: sync, net: net}
}

// render executes <route>.html inside the layout.
func (s *Shell) render(w http.ResponseWriter, r *http.Request, route string, status int, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	defaults := map[string]any{
		"Route":  route,
		"Query":  r.URL.Query().Get("q"),
		"Modal":  "",
		"ID":     "",
		"Errors": validation.Violations{},
		"Form":   map[string]string{},
	}
	for k, v := range defaults {
		if _, ok := data[k]; !ok {
			data[k] = v
		}
	}
	data["Routes"] = Routes
	data["Summary"] = s.inv.Summary()
	data["Online"] = s.net == nil || s.net.Online(r.Context())
	data["Dirty"] = s.sync != nil && s.sync.Dirty()
	if err := view.RenderStatus(w, r, status, route+".html", data); err != nil {
		log.Printf("render %s: %v", route, err)
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}

// fail reports an unexpected error, typically a local storage write failure.
// Nothing was changed; the user is sent back to the list with a notice.
func (s *Shell) fail(w http.ResponseWriter, r *http.Request, back string, err error) {
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "save_failed", nil)
		return
	}
	middleware.FlashError(w, "save_failed")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// notFound answers a stale or unknown id.
func (s *Shell) notFound(w http.ResponseWriter, r *http.Request, back string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	middleware.FlashError(w, "not_found")
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// done confirms a successful change: JSON clients get payload, browsers a
// flash notice and a redirect to the list (a full re-render).
func (s *Shell) done(w http.ResponseWriter, r *http.Request, back, code string, status int, payload any) {
	if httpx.WantsJSON(r) {
		if payload == nil {
			w.WriteHeader(status)
			return
		}
		httpx.JSON(w, status, payload)
		return
	}
	middleware.Flash(w, code)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// modalFrom reads ?modal=<kind>&id=<id>.
func modalFrom(r *http.Request) (kind, id string) {
	q := r.URL.Query()
	return strings.TrimSpace(q.Get("modal")), strings.TrimSpace(q.Get("id"))
}

// confirmed reports whether a destructive form was explicitly confirmed.
func confirmed(r *http.Request) bool {
	return r.FormValue("confirm") == "yes"
}

// parseAmount reads a non-negative decimal form value. An empty value reads
// as zero; commas are accepted as decimal separators.
func parseAmount(field, raw string, v validation.Violations) float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		v.Add(field, "invalid_number")
		return 0
	}
	validation.NonNegativeFloat(field, f, v)
	return f
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
