package models

import (
	"github.com/shopspring/decimal"
)

// DateLayout is the format of Invoice.Date.
const DateLayout = "2006-01-02 15:04:05"

// Invoice is a delivery note for one shop.
// ShopName and the item names/prices are copies taken when the invoice was
// edited, so later product or shop edits never rewrite history.
type Invoice struct {
	ID       string        `json:"id"`
	ShopID   string        `json:"shopId"`
	ShopName string        `json:"shopName"`
	Items    []InvoiceItem `json:"items"`
	Total    float64       `json:"total"`
	Date     string        `json:"date"`
}

// InvoiceItem represents a line item on an invoice.
type InvoiceItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
}

// LineTotal calculates qty × unit price.
func (item InvoiceItem) LineTotal() float64 {
	f, _ := item.lineTotal().Float64()
	return f
}

func (item InvoiceItem) lineTotal() decimal.Decimal {
	return decimal.NewFromFloat(item.Price).Mul(decimal.NewFromFloat(item.Qty))
}

// ComputeTotal sums the line totals. Decimal arithmetic keeps 0.1×3 at 0.3.
func ComputeTotal(items []InvoiceItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.lineTotal())
	}
	f, _ := sum.Float64()
	return f
}

// ComputedTotal returns the total of the current items, which may differ from
// the frozen Total if Items was changed without saving.
func (i *Invoice) ComputedTotal() float64 {
	return ComputeTotal(i.Items)
}

// Snapshot captures a product as an invoice line.
func (p Product) Snapshot(qty float64) InvoiceItem {
	return InvoiceItem{ProductID: p.ID, Name: p.Name, Qty: qty, Price: p.Price}
}
