package services

import (
	"github.com/diewo77/go-shop/internal/models"
)

// LineInput is one submitted invoice line before product lookup. Price, when
// set, is the price the line was shown with and wins over any lookup.
type LineInput struct {
	ProductID string
	Qty       float64
	Name      string
	Price     *float64
}

// DraftLine is an invoice line being edited. Known is false when its product
// no longer exists and no earlier copy was available.
type DraftLine struct {
	models.InvoiceItem
	Known bool
}

// InvoiceDraft is the invoice editing surface. Its total is recomputed from
// the lines every time it is read; it is frozen only by SaveInvoice.
type InvoiceDraft struct {
	InvoiceID string
	ShopID    string
	Lines     []DraftLine
}

// Total is Σ qty × price over the current lines.
func (d *InvoiceDraft) Total() float64 {
	return models.ComputeTotal(d.Items())
}

// Items returns the lines as invoice items.
func (d *InvoiceDraft) Items() []models.InvoiceItem {
	out := make([]models.InvoiceItem, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.InvoiceItem
	}
	return out
}

// HasUnknownLines reports whether any line lost its product.
func (d *InvoiceDraft) HasUnknownLines() bool {
	for _, l := range d.Lines {
		if !l.Known {
			return true
		}
	}
	return false
}

// RemoveLine drops line i. Out of range indexes are ignored.
func (d *InvoiceDraft) RemoveLine(i int) {
	if i < 0 || i >= len(d.Lines) {
		return
	}
	d.Lines = append(d.Lines[:i:i], d.Lines[i+1:]...)
}

// IsEdit reports whether the draft edits a saved invoice.
func (d *InvoiceDraft) IsEdit() bool { return d.InvoiceID != "" }

// EditDraft opens a saved invoice for editing, keeping its recorded lines.
func (s *InventoryService) EditDraft(id string) (*InvoiceDraft, error) {
	inv, ok := s.Invoice(id)
	if !ok {
		return nil, ErrNotFound
	}
	d := &InvoiceDraft{InvoiceID: inv.ID, ShopID: inv.ShopID}
	for _, it := range inv.Items {
		d.Lines = append(d.Lines, DraftLine{InvoiceItem: it, Known: true})
	}
	return d, nil
}

// BuildDraft rebuilds a draft from submitted lines. A line that carries its
// shown price keeps it. Otherwise it takes the next unused copy the edited
// invoice recorded for its product, and only then the product's current name
// and price.
func (s *InventoryService) BuildDraft(invoiceID, shopID string, lines []LineInput) *InvoiceDraft {
	st := s.store.Get()
	recorded := map[string][]models.InvoiceItem{}
	if inv := st.FindInvoice(invoiceID); inv != nil {
		for _, it := range inv.Items {
			recorded[it.ProductID] = append(recorded[it.ProductID], it)
		}
	}
	d := &InvoiceDraft{InvoiceID: invoiceID, ShopID: shopID}
	for _, in := range lines {
		if in.ProductID != "" && in.Price != nil && *in.Price >= 0 {
			it := models.InvoiceItem{ProductID: in.ProductID, Name: in.Name, Qty: in.Qty, Price: *in.Price}
			if it.Name == "" {
				if p := st.FindProduct(in.ProductID); p != nil {
					it.Name = p.Name
				}
			}
			d.Lines = append(d.Lines, DraftLine{InvoiceItem: it, Known: true})
			continue
		}
		if copies := recorded[in.ProductID]; len(copies) > 0 {
			it := copies[0]
			recorded[in.ProductID] = copies[1:]
			it.Qty = in.Qty
			d.Lines = append(d.Lines, DraftLine{InvoiceItem: it, Known: true})
			continue
		}
		if p := st.FindProduct(in.ProductID); p != nil {
			d.Lines = append(d.Lines, DraftLine{InvoiceItem: p.Snapshot(in.Qty), Known: true})
			continue
		}
		d.Lines = append(d.Lines, DraftLine{InvoiceItem: models.InvoiceItem{ProductID: in.ProductID, Qty: in.Qty}})
	}
	return d
}

// Inputs returns the lines as they would be resubmitted, shown prices included.
func (d *InvoiceDraft) Inputs() []LineInput {
	out := make([]LineInput, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = LineInput{ProductID: l.ProductID, Qty: l.Qty}
		if l.Known {
			price := l.Price
			out[i].Name = l.Name
			out[i].Price = &price
		}
	}
	return out
}

// AddDraftLine appends a line copying the product's current name and price.
func (s *InventoryService) AddDraftLine(d *InvoiceDraft, productID string, qty float64) error {
	p, ok := s.Product(productID)
	if !ok {
		return ErrNotFound
	}
	d.Lines = append(d.Lines, DraftLine{InvoiceItem: p.Snapshot(qty), Known: true})
	return nil
}
