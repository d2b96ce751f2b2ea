package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-shop/httpx"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/diewo77/go-shop/validation"
)

type ShopHandler struct {
	*Shell
}

func NewShopHandler(shell *Shell) *ShopHandler {
	return &ShopHandler{Shell: shell}
}

func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	switch kind, id := modalFrom(r); kind {
	case "new":
		data["Modal"] = "new"
	case "edit", "delete", "view":
		sh, ok := h.inv.Shop(id)
		if !ok {
			h.notFound(w, r, "/shops")
			return
		}
		data["Modal"] = kind
		data["ID"] = sh.ID
		data["Target"] = sh.Name
		data["Form"] = map[string]string{"name": sh.Name, "phone": sh.Phone}
		if kind == "view" {
			data["ShopInvoices"] = h.inv.InvoicesForShop(sh.ID)
		}
	}
	h.renderList(w, r, http.StatusOK, data)
}

func (h *ShopHandler) renderList(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	q := r.URL.Query().Get("q")
	data["Query"] = q
	data["Shops"] = h.inv.Shops(q)
	h.render(w, r, "shops", status, data)
}

func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, form := readShopForm(r)
	sh, err := h.inv.AddShop(r.Context(), in)
	if err == nil {
		h.done(w, r, "/shops", "saved", http.StatusCreated, sh)
		return
	}
	v, ok := services.IsValidation(err)
	if !ok {
		h.fail(w, r, "/shops", err)
		return
	}
	h.invalid(w, r, "new", "", form, v)
}

func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, form := readShopForm(r)
	sh, err := h.inv.EditShop(r.Context(), id, in)
	if err == nil {
		h.done(w, r, "/shops", "saved", http.StatusOK, sh)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		h.notFound(w, r, "/shops")
		return
	}
	v, ok := services.IsValidation(err)
	if !ok {
		h.fail(w, r, "/shops", err)
		return
	}
	h.invalid(w, r, "edit", id, form, v)
}

// Delete removes a shop. Its invoices are kept.
func (h *ShopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		http.Redirect(w, r, "/shops", http.StatusSeeOther)
		return
	}
	removed, err := h.inv.DeleteShop(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "/shops", err)
		return
	}
	if !removed {
		h.notFound(w, r, "/shops")
		return
	}
	h.done(w, r, "/shops", "deleted", http.StatusNoContent, nil)
}

func (h *ShopHandler) invalid(w http.ResponseWriter, r *http.Request, modal, id string, form map[string]string, v validation.Violations) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}
	h.renderList(w, r, http.StatusUnprocessableEntity, map[string]any{
		"Modal":  modal,
		"ID":     id,
		"Form":   form,
		"Errors": v,
	})
}

func readShopForm(r *http.Request) (services.ShopInput, map[string]string) {
	form := map[string]string{
		"name":  r.FormValue("name"),
		"phone": r.FormValue("phone"),
	}
	return services.ShopInput{Name: strings.TrimSpace(form["name"]), Phone: strings.TrimSpace(form["phone"])}, form
}
