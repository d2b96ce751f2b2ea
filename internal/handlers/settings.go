package handlers

import (
	"net/http"

	"github.com/diewo77/go-shop/i18n"
	"github.com/diewo77/go-shop/internal/middleware"
)

type SettingsHandler struct {
	*Shell
}

func NewSettingsHandler(shell *Shell) *SettingsHandler {
	return &SettingsHandler{Shell: shell}
}

func (h *SettingsHandler) Page(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Languages": i18n.Supported(),
		"Themes":    middleware.Themes,
	}
	if kind, _ := modalFrom(r); kind == "clear" {
		data["Modal"] = "clear"
	}
	h.render(w, r, "settings", http.StatusOK, data)
}

// Prefs stores the language and theme cookies.
func (h *SettingsHandler) Prefs(w http.ResponseWriter, r *http.Request) {
	middleware.SavePrefs(w, r.FormValue("lang"), r.FormValue("theme"))
	h.done(w, r, "/settings", "prefs_saved", http.StatusNoContent, nil)
}

// Clear wipes every product, shop and invoice once confirmed. Sync settings are kept.
func (h *SettingsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
		return
	}
	if err := h.inv.ClearAll(r.Context()); err != nil {
		h.fail(w, r, "/settings", err)
		return
	}
	h.done(w, r, "/products", "data_cleared", http.StatusNoContent, nil)
}
