package handlers

import (
	"net/http"

	"github.com/diewo77/go-shop/httpx"
	"github.com/diewo77/go-shop/internal/services"
)

type APIHandler struct {
	*Shell
}

func NewAPIHandler(shell *Shell) *APIHandler {
	return &APIHandler{Shell: shell}
}

// State exports the whole dataset in the same shape as the synced file.
// ?download=1 asks the browser to save it.
func (h *APIHandler) State(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", `attachment; filename="shop_data.json"`)
	}
	httpx.JSON(w, http.StatusOK, h.inv.Store().Get())
}

type totalRequest struct {
	InvoiceID string `json:"invoiceId"`
	ShopID    string `json:"shopId"`
	Items     []struct {
		ProductID string   `json:"productId"`
		Qty       float64  `json:"qty"`
		Name      string   `json:"name,omitempty"`
		Price     *float64 `json:"price,omitempty"`
	} `json:"items"`
}

type totalLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
	LineTotal float64 `json:"lineTotal"`
	Known     bool    `json:"known"`
}

type totalResponse struct {
	Total   float64     `json:"total"`
	Lines   []totalLine `json:"lines"`
	Unknown bool        `json:"unknown"`
}

// Total computes the live total of an unsaved invoice.
func (h *APIHandler) Total(w http.ResponseWriter, r *http.Request) {
	var req totalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	lines := make([]services.LineInput, len(req.Items))
	for i, it := range req.Items {
		lines[i] = services.LineInput{ProductID: it.ProductID, Qty: it.Qty, Name: it.Name, Price: it.Price}
	}
	d := h.inv.BuildDraft(req.InvoiceID, req.ShopID, lines)
	out := totalResponse{Total: d.Total(), Lines: make([]totalLine, len(d.Lines)), Unknown: d.HasUnknownLines()}
	for i, l := range d.Lines {
		out.Lines[i] = totalLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Qty,
			Price:     l.Price,
			LineTotal: l.LineTotal(),
			Known:     l.Known,
		}
	}
	httpx.JSON(w, http.StatusOK, out)
}
