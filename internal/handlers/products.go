package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-shop/httpx"
	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/diewo77/go-shop/validation"
)

type ProductHandler struct {
	*Shell
}

func NewProductHandler(shell *Shell) *ProductHandler {
	return &ProductHandler{Shell: shell}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	switch kind, id := modalFrom(r); kind {
	case "new":
		data["Modal"] = "new"
	case "edit", "delete":
		p, ok := h.inv.Product(id)
		if !ok {
			h.notFound(w, r, "/products")
			return
		}
		data["Modal"] = kind
		data["ID"] = p.ID
		data["Target"] = p.Name
		data["Form"] = productForm(p)
	}
	h.renderList(w, r, http.StatusOK, data)
}

func (h *ProductHandler) renderList(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	q := r.URL.Query().Get("q")
	data["Query"] = q
	data["Products"] = h.inv.Products(q)
	h.render(w, r, "products", status, data)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, form, v := readProductForm(r)
	if v.Empty() {
		p, err := h.inv.AddProduct(r.Context(), in)
		if err == nil {
			h.done(w, r, "/products", "saved", http.StatusCreated, p)
			return
		}
		var ok bool
		if v, ok = services.IsValidation(err); !ok {
			h.fail(w, r, "/products", err)
			return
		}
	}
	h.invalid(w, r, "new", "", form, v)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, form, v := readProductForm(r)
	if v.Empty() {
		p, err := h.inv.EditProduct(r.Context(), id, in)
		if err == nil {
			h.done(w, r, "/products", "saved", http.StatusOK, p)
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			h.notFound(w, r, "/products")
			return
		}
		var ok bool
		if v, ok = services.IsValidation(err); !ok {
			h.fail(w, r, "/products", err)
			return
		}
	}
	h.invalid(w, r, "edit", id, form, v)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	removed, err := h.inv.DeleteProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "/products", err)
		return
	}
	if !removed {
		h.notFound(w, r, "/products")
		return
	}
	h.done(w, r, "/products", "deleted", http.StatusNoContent, nil)
}

// invalid re-renders the form modal with its messages. Nothing was written.
func (h *ProductHandler) invalid(w http.ResponseWriter, r *http.Request, modal, id string, form map[string]string, v validation.Violations) {
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

func readProductForm(r *http.Request) (services.ProductInput, map[string]string, validation.Violations) {
	form := map[string]string{
		"name":  r.FormValue("name"),
		"price": r.FormValue("price"),
		"notes": r.FormValue("notes"),
	}
	v := make(validation.Violations)
	in := services.ProductInput{
		Name:  strings.TrimSpace(form["name"]),
		Notes: strings.TrimSpace(form["notes"]),
	}
	validation.Required("name", in.Name, v)
	in.Price = parseAmount("price", form["price"], v)
	return in, form, v
}

func productForm(p models.Product) map[string]string {
	return map[string]string{"name": p.Name, "price": formatAmount(p.Price), "notes": p.Notes}
}
