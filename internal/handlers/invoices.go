package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-shop/httpx"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/diewo77/go-shop/validation"
)

type InvoiceHandler struct {
	*Shell
}

func NewInvoiceHandler(shell *Shell) *InvoiceHandler {
	return &InvoiceHandler{Shell: shell}
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	switch kind, id := modalFrom(r); kind {
	case "new":
		data["Modal"] = "new"
		data["Draft"] = &services.InvoiceDraft{}
	case "edit":
		d, err := h.inv.EditDraft(id)
		if err != nil {
			h.notFound(w, r, "/invoices")
			return
		}
		data["Modal"] = "edit"
		data["ID"] = id
		data["Draft"] = d
	case "view", "delete":
		inv, ok := h.inv.Invoice(id)
		if !ok {
			h.notFound(w, r, "/invoices")
			return
		}
		data["Modal"] = kind
		data["ID"] = inv.ID
		data["Invoice"] = inv
		data["Target"] = inv.ShopName + " " + inv.Date
	}
	h.renderList(w, r, http.StatusOK, data)
}

func (h *InvoiceHandler) renderList(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	q := r.URL.Query().Get("q")
	data["Query"] = q
	data["Invoices"] = h.inv.Invoices(q)
	data["Shops"] = h.inv.Shops("")
	data["Products"] = h.inv.Products("")
	h.render(w, r, "invoices", status, data)
}

// Form drives the invoice editing surface. Every submission rebuilds the
// draft from the posted lines, applies op and re-renders it with a fresh
// total; only op=save writes.
func (h *InvoiceHandler) Form(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	v := make(validation.Violations)
	lines := readLines(r, v)
	d := h.inv.BuildDraft(strings.TrimSpace(r.PostFormValue("invoice_id")), strings.TrimSpace(r.PostFormValue("shop_id")), lines)

	status := http.StatusOK
	op, arg, _ := strings.Cut(r.PostFormValue("op"), ":")
	switch op {
	case "add_line":
		pid := strings.TrimSpace(r.PostFormValue("new_product_id"))
		validation.Required("new_product_id", pid, v)
		qty := parseQty("new_qty", r.PostFormValue("new_qty"), v)
		if v.Empty() {
			if err := h.inv.AddDraftLine(d, pid, qty); err != nil {
				v.Add("new_product_id", "not_found")
			}
		}
	case "remove_line":
		if i, err := strconv.Atoi(arg); err == nil {
			d.RemoveLine(i)
		}
	case "save":
		if v.Empty() {
			inv, err := h.inv.SaveInvoice(r.Context(), d)
			switch {
			case err == nil:
				code := http.StatusCreated
				if d.IsEdit() {
					code = http.StatusOK
				}
				h.done(w, r, "/invoices", "saved", code, inv)
				return
			case errors.Is(err, services.ErrNotFound):
				h.notFound(w, r, "/invoices")
				return
			}
			vv, ok := services.IsValidation(err)
			if !ok {
				h.fail(w, r, "/invoices", err)
				return
			}
			v = vv
		}
		status = http.StatusUnprocessableEntity
	}
	if httpx.WantsJSON(r) && !v.Empty() {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", v)
		return
	}

	modal := "new"
	if d.IsEdit() {
		modal = "edit"
	}
	h.renderList(w, r, status, map[string]any{
		"Modal":  modal,
		"ID":     d.InvoiceID,
		"Draft":  d,
		"Errors": v,
	})
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		http.Redirect(w, r, "/invoices", http.StatusSeeOther)
		return
	}
	removed, err := h.inv.DeleteInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "/invoices", err)
		return
	}
	if !removed {
		h.notFound(w, r, "/invoices")
		return
	}
	h.done(w, r, "/invoices", "deleted", http.StatusNoContent, nil)
}

// readLines zips the repeated product_id, qty, line_name and line_price
// fields. A line whose shown price is missing or unreadable is priced again.
func readLines(r *http.Request, v validation.Violations) []services.LineInput {
	ids := r.PostForm["product_id"]
	qtys := r.PostForm["qty"]
	names := r.PostForm["line_name"]
	prices := r.PostForm["line_price"]
	lines := make([]services.LineInput, 0, len(ids))
	for i, id := range ids {
		in := services.LineInput{ProductID: id, Qty: parseQty("items", nth(qtys, i), v)}
		if price, ok := shownPrice(nth(prices, i)); ok {
			in.Name = strings.TrimSpace(nth(names, i))
			in.Price = &price
		}
		lines = append(lines, in)
	}
	return lines
}

func nth(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func shownPrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, false
	}
	return p, true
}

// parseQty reads a quantity; it must be greater than zero.
func parseQty(field, raw string, v validation.Violations) float64 {
	before := len(v)
	q := parseAmount(field, raw, v)
	if len(v) == before {
		validation.PositiveFloat(field, q, v)
	}
	return q
}
