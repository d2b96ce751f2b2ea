package models

import (
	"slices"
	"strings"
)

// Product is an item the shop sells.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Notes string  `json:"notes"`
}

// Shop is a customer the operator delivers to.
type Shop struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// State is the whole dataset. It is persisted and synced as one JSON document.
type State struct {
	Products []Product `json:"products"`
	Shops    []Shop    `json:"shops"`
	Invoices []Invoice `json:"invoices"`
}

// EmptyState returns a state whose collections encode as [] rather than null.
func EmptyState() State {
	return State{Products: []Product{}, Shops: []Shop{}, Invoices: []Invoice{}}
}

// Normalize replaces nil collections with empty ones.
func (s *State) Normalize() {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Shops == nil {
		s.Shops = []Shop{}
	}
	if s.Invoices == nil {
		s.Invoices = []Invoice{}
	}
	for i := range s.Invoices {
		if s.Invoices[i].Items == nil {
			s.Invoices[i].Items = []InvoiceItem{}
		}
	}
}

// Clone returns a deep copy so callers can read without holding locks.
func (s State) Clone() State {
	out := State{
		Products: slices.Clone(s.Products),
		Shops:    slices.Clone(s.Shops),
		Invoices: make([]Invoice, len(s.Invoices)),
	}
	for i, inv := range s.Invoices {
		inv.Items = slices.Clone(inv.Items)
		out.Invoices[i] = inv
	}
	out.Normalize()
	return out
}

// FindProduct returns a pointer into s.Products, or nil.
func (s *State) FindProduct(id string) *Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// FindShop returns a pointer into s.Shops, or nil.
func (s *State) FindShop(id string) *Shop {
	for i := range s.Shops {
		if s.Shops[i].ID == id {
			return &s.Shops[i]
		}
	}
	return nil
}

// FindInvoice returns a pointer into s.Invoices, or nil.
func (s *State) FindInvoice(id string) *Invoice {
	for i := range s.Invoices {
		if s.Invoices[i].ID == id {
			return &s.Invoices[i]
		}
	}
	return nil
}

// NameMatches reports whether name contains q, ignoring case. An empty query matches everything.
func NameMatches(name, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), q)
}
