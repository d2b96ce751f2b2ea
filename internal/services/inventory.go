package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/state"
	"github.com/diewo77/go-shop/validation"
	"github.com/google/uuid"
)

// ErrNotFound is returned when an id does not match any entity.
var ErrNotFound = errors.New("not found")

// ValidationError carries per-field violations. Nothing is written when it is returned.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	Name  string
	Price float64
	Notes string
}

// ShopInput is the editable part of a shop.
type ShopInput struct {
	Name  string
	Phone string
}

// Summary holds the counters shown in the header.
type Summary struct {
	Products int
	Shops    int
	Invoices int
	Revenue  float64
}

// InventoryService implements product, shop and invoice operations on top of the state store.
type InventoryService struct {
	store *state.Store
	newID func() string
	now   func() time.Time
}

func NewInventoryService(store *state.Store) *InventoryService {
	return &InventoryService{store: store, newID: uuid.NewString, now: time.Now}
}

// Store exposes the underlying state store.
func (s *InventoryService) Store() *state.Store { return s.store }

// ─────────────────────────────────────────────────────────────────────────────
// Products
// ─────────────────────────────────────────────────────────────────────────────

func validateProduct(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.NonNegativeFloat("price", in.Price, v)
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

// AddProduct creates a product and puts it first in the list.
func (s *InventoryService) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := validateProduct(&in); err != nil {
		return models.Product{}, err
	}
	p := models.Product{ID: s.newID(), Name: in.Name, Price: in.Price, Notes: in.Notes}
	err := s.store.Update(ctx, func(st *models.State) error {
		st.Products = append([]models.Product{p}, st.Products...)
		return nil
	})
	return p, err
}

// EditProduct updates a product in place. Invoices already saved keep their copy.
func (s *InventoryService) EditProduct(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	if err := validateProduct(&in); err != nil {
		return models.Product{}, err
	}
	var out models.Product
	err := s.store.Update(ctx, func(st *models.State) error {
		p := st.FindProduct(id)
		if p == nil {
			return ErrNotFound
		}
		p.Name, p.Price, p.Notes = in.Name, in.Price, in.Notes
		out = *p
		return nil
	})
	return out, err
}

// DeleteProduct removes the product with id. It reports whether anything was removed.
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.store.Update(ctx, func(st *models.State) error {
		st.Products, removed = removeByID(st.Products, id, func(p models.Product) string { return p.ID })
		return nil
	})
	return removed, err
}

// Product looks a product up by id.
func (s *InventoryService) Product(id string) (models.Product, bool) {
	st := s.store.Get()
	if p := st.FindProduct(id); p != nil {
		return *p, true
	}
	return models.Product{}, false
}

// Products returns the products whose name contains q, most recent first.
func (s *InventoryService) Products(q string) []models.Product {
	return filter(s.store.Get().Products, func(p models.Product) bool { return models.NameMatches(p.Name, q) })
}

// ─────────────────────────────────────────────────────────────────────────────
// Shops
// ─────────────────────────────────────────────────────────────────────────────

func validateShop(in *ShopInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	if !v.Empty() {
		return &ValidationError{Violations: v}
	}
	return nil
}

func (s *InventoryService) AddShop(ctx context.Context, in ShopInput) (models.Shop, error) {
	if err := validateShop(&in); err != nil {
		return models.Shop{}, err
	}
	sh := models.Shop{ID: s.newID(), Name: in.Name, Phone: in.Phone}
	err := s.store.Update(ctx, func(st *models.State) error {
		st.Shops = append([]models.Shop{sh}, st.Shops...)
		return nil
	})
	return sh, err
}

func (s *InventoryService) EditShop(ctx context.Context, id string, in ShopInput) (models.Shop, error) {
	if err := validateShop(&in); err != nil {
		return models.Shop{}, err
	}
	var out models.Shop
	err := s.store.Update(ctx, func(st *models.State) error {
		sh := st.FindShop(id)
		if sh == nil {
			return ErrNotFound
		}
		sh.Name, sh.Phone = in.Name, in.Phone
		out = *sh
		return nil
	})
	return out, err
}

// DeleteShop removes a shop. Its invoices stay, still showing the shop name
// they were saved with.
func (s *InventoryService) DeleteShop(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.store.Update(ctx, func(st *models.State) error {
		st.Shops, removed = removeByID(st.Shops, id, func(sh models.Shop) string { return sh.ID })
		return nil
	})
	return removed, err
}

func (s *InventoryService) Shop(id string) (models.Shop, bool) {
	st := s.store.Get()
	if sh := st.FindShop(id); sh != nil {
		return *sh, true
	}
	return models.Shop{}, false
}

// Shops returns the shops whose name contains q, most recent first.
func (s *InventoryService) Shops(q string) []models.Shop {
	return filter(s.store.Get().Shops, func(sh models.Shop) bool { return models.NameMatches(sh.Name, q) })
}

// ─────────────────────────────────────────────────────────────────────────────
// Invoices
// ─────────────────────────────────────────────────────────────────────────────

// Invoices returns invoices whose shop name or id contains q, most recent first.
func (s *InventoryService) Invoices(q string) []models.Invoice {
	return filter(s.store.Get().Invoices, func(inv models.Invoice) bool {
		return models.NameMatches(inv.ShopName, q) || models.NameMatches(inv.ID, q)
	})
}

func (s *InventoryService) Invoice(id string) (models.Invoice, bool) {
	st := s.store.Get()
	if inv := st.FindInvoice(id); inv != nil {
		return *inv, true
	}
	return models.Invoice{}, false
}

// InvoicesForShop lists the invoices issued to shopID.
func (s *InventoryService) InvoicesForShop(shopID string) []models.Invoice {
	return filter(s.store.Get().Invoices, func(inv models.Invoice) bool { return inv.ShopID == shopID })
}

// DeleteInvoice removes an invoice.
func (s *InventoryService) DeleteInvoice(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := s.store.Update(ctx, func(st *models.State) error {
		st.Invoices, removed = removeByID(st.Invoices, id, func(inv models.Invoice) string { return inv.ID })
		return nil
	})
	return removed, err
}

// SaveInvoice validates d and stores it. A draft with an InvoiceID replaces
// that invoice in place; otherwise a new invoice is put first in the list.
// The total is frozen and the shop name copied at this point.
func (s *InventoryService) SaveInvoice(ctx context.Context, d *InvoiceDraft) (models.Invoice, error) {
	var out models.Invoice
	err := s.store.Update(ctx, func(st *models.State) error {
		v := make(validation.Violations)
		validation.Required("shop_id", d.ShopID, v)
		shop := st.FindShop(d.ShopID)
		if d.ShopID != "" && shop == nil {
			v.Add("shop_id", "not_found")
		}
		if d.HasUnknownLines() {
			v.Add("items", "unknown_product")
		}
		var existing *models.Invoice
		if d.InvoiceID != "" {
			if existing = st.FindInvoice(d.InvoiceID); existing == nil {
				return ErrNotFound
			}
		}
		if !v.Empty() {
			return &ValidationError{Violations: v}
		}

		inv := models.Invoice{
			ID:       d.InvoiceID,
			ShopID:   shop.ID,
			ShopName: shop.Name,
			Items:    d.Items(),
			Total:    d.Total(),
			Date:     s.now().Format(models.DateLayout),
		}
		if existing != nil {
			*existing = inv
		} else {
			inv.ID = s.newID()
			st.Invoices = append([]models.Invoice{inv}, st.Invoices...)
		}
		out = inv
		return nil
	})
	return out, err
}

// ClearAll wipes every product, shop and invoice.
func (s *InventoryService) ClearAll(ctx context.Context) error {
	return s.store.Replace(ctx, models.EmptyState())
}

// Summary counts entities and sums invoice totals.
func (s *InventoryService) Summary() Summary {
	st := s.store.Get()
	sum := Summary{Products: len(st.Products), Shops: len(st.Shops), Invoices: len(st.Invoices)}
	var items []models.InvoiceItem
	for _, inv := range st.Invoices {
		items = append(items, models.InvoiceItem{Qty: 1, Price: inv.Total})
	}
	sum.Revenue = models.ComputeTotal(items)
	return sum
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func removeByID[T any](in []T, id string, idOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(in))
	removed := false
	for _, v := range in {
		if idOf(v) == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

// IsValidation reports whether err is a *ValidationError and returns its violations.
func IsValidation(err error) (validation.Violations, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations, true
	}
	return nil, false
}
