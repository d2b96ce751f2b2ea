package services

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/diewo77/go-shop/internal/models"
	"github.com/diewo77/go-shop/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPersister struct{ err error }

func (f failingPersister) SaveState(context.Context, models.State) error { return f.err }

func newTestInventory(t *testing.T) *InventoryService {
	t.Helper()
	svc := NewInventoryService(state.New(models.EmptyState(), nil))
	n := 0
	svc.newID = func() string { n++; return "id" + strconv.Itoa(n) }
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC) }
	return svc
}

func TestAddProductValidation(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, ProductInput{Name: "  ", Price: -1})
	v, ok := IsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, "required", v["name"])
	assert.Equal(t, "must_not_be_negative", v["price"])
	assert.Empty(t, svc.Products(""))

	p, err := svc.AddProduct(ctx, ProductInput{Name: " Sugar ", Price: 0})
	require.NoError(t, err)
	assert.Equal(t, "Sugar", p.Name)
}

func TestProductsNewestFirstAndSearch(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	for _, name := range []string{"Sugar", "Rice", "Brown sugar"} {
		_, err := svc.AddProduct(ctx, ProductInput{Name: name, Price: 1})
		require.NoError(t, err)
	}

	var names []string
	for _, p := range svc.Products("") {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Brown sugar", "Rice", "Sugar"}, names)

	got := svc.Products("SUGAR")
	require.Len(t, got, 2)
	assert.Equal(t, "Brown sugar", got[0].Name)
	before := svc.Store().Get()
	assert.Empty(t, svc.Products("flour"))
	assert.Equal(t, before, svc.Store().Get())
}

func TestEditAndDeleteProduct(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	p, err := svc.AddProduct(ctx, ProductInput{Name: "Tea", Price: 3})
	require.NoError(t, err)

	_, err = svc.EditProduct(ctx, "missing", ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	edited, err := svc.EditProduct(ctx, p.ID, ProductInput{Name: "Green tea", Price: 4, Notes: "box"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, edited.ID)
	got, ok := svc.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, "box", got.Notes)

	removed, err := svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestShopCRUD(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()

	_, err := svc.AddShop(ctx, ShopInput{Name: ""})
	_, ok := IsValidation(err)
	assert.True(t, ok)

	sh, err := svc.AddShop(ctx, ShopInput{Name: "Market A", Phone: " 0100 "})
	require.NoError(t, err)
	assert.Equal(t, "0100", sh.Phone)

	_, err = svc.EditShop(ctx, sh.ID, ShopInput{Name: "Market B"})
	require.NoError(t, err)
	assert.Len(t, svc.Shops("market b"), 1)

	removed, err := svc.DeleteShop(ctx, sh.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, svc.Shops(""))
}

func TestSaveInvoiceFreezesTotalAndSnapshot(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	sugar, _ := svc.AddProduct(ctx, ProductInput{Name: "Sugar", Price: 10})
	shop, _ := svc.AddShop(ctx, ShopInput{Name: "Market A"})
	older, _ := svc.AddShop(ctx, ShopInput{Name: "Market Z"})

	_, err := svc.SaveInvoice(ctx, svc.BuildDraft("", older.ID, nil))
	require.NoError(t, err)

	d := svc.BuildDraft("", shop.ID, nil)
	require.NoError(t, svc.AddDraftLine(d, sugar.ID, 3))
	assert.Equal(t, 30.0, d.Total())

	inv, err := svc.SaveInvoice(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 30.0, inv.Total)
	assert.Equal(t, "Market A", inv.ShopName)
	assert.Equal(t, "2024-03-09 14:05:00", inv.Date)
	list := svc.Invoices("")
	require.Len(t, list, 2)
	assert.Equal(t, inv.ID, list[0].ID)

	_, err = svc.EditProduct(ctx, sugar.ID, ProductInput{Name: "Sugar", Price: 12})
	require.NoError(t, err)
	stored, ok := svc.Invoice(inv.ID)
	require.True(t, ok)
	assert.Equal(t, 10.0, stored.Items[0].Price)
	assert.Equal(t, 30.0, stored.Total)
}

func TestSaveInvoiceValidation(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()

	_, err := svc.SaveInvoice(ctx, svc.BuildDraft("", "", nil))
	v, ok := IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "required", v["shop_id"])

	_, err = svc.SaveInvoice(ctx, svc.BuildDraft("", "ghost", []LineInput{{ProductID: "gone", Qty: 1}}))
	v, ok = IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "not_found", v["shop_id"])
	assert.Equal(t, "unknown_product", v["items"])
	assert.Empty(t, svc.Invoices(""))

	shop, _ := svc.AddShop(ctx, ShopInput{Name: "Market A"})
	_, err = svc.SaveInvoice(ctx, svc.BuildDraft("missing", shop.ID, nil))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditInvoiceKeepsRecordedLines(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	sugar, _ := svc.AddProduct(ctx, ProductInput{Name: "Sugar", Price: 10})
	rice, _ := svc.AddProduct(ctx, ProductInput{Name: "Rice", Price: 2})
	shop, _ := svc.AddShop(ctx, ShopInput{Name: "Market A"})

	d := svc.BuildDraft("", shop.ID, []LineInput{{ProductID: sugar.ID, Qty: 1}})
	inv, err := svc.SaveInvoice(ctx, d)
	require.NoError(t, err)

	_, err = svc.EditProduct(ctx, sugar.ID, ProductInput{Name: "Sugar", Price: 99})
	require.NoError(t, err)

	edit, err := svc.EditDraft(inv.ID)
	require.NoError(t, err)
	assert.True(t, edit.IsEdit())
	lines := []LineInput{{ProductID: sugar.ID, Qty: 2}, {ProductID: rice.ID, Qty: 5}}
	edit = svc.BuildDraft(inv.ID, shop.ID, lines)
	assert.Equal(t, 30.0, edit.Total())

	saved, err := svc.SaveInvoice(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, saved.ID)
	assert.Len(t, svc.Invoices(""), 1)
	assert.Equal(t, 30.0, saved.Total)
}

func TestEditInvoiceKeepsShownPriceForRepeatedProduct(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	sugar, _ := svc.AddProduct(ctx, ProductInput{Name: "Sugar", Price: 10})
	shop, _ := svc.AddShop(ctx, ShopInput{Name: "Market A"})
	inv, err := svc.SaveInvoice(ctx, svc.BuildDraft("", shop.ID, []LineInput{{ProductID: sugar.ID, Qty: 1}}))
	require.NoError(t, err)

	_, err = svc.EditProduct(ctx, sugar.ID, ProductInput{Name: "Sugar", Price: 12})
	require.NoError(t, err)

	edit, err := svc.EditDraft(inv.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AddDraftLine(edit, sugar.ID, 1))
	assert.Equal(t, 22.0, edit.Total())

	// resubmitted with shown prices
	again := svc.BuildDraft(inv.ID, shop.ID, edit.Inputs())
	require.Len(t, again.Lines, 2)
	assert.Equal(t, 10.0, again.Lines[0].Price)
	assert.Equal(t, 12.0, again.Lines[1].Price)
	assert.Equal(t, 22.0, again.Total())

	// resubmitted without them, the recorded copy is used once
	bare := svc.BuildDraft(inv.ID, shop.ID, []LineInput{{ProductID: sugar.ID, Qty: 1}, {ProductID: sugar.ID, Qty: 1}})
	assert.Equal(t, 22.0, bare.Total())

	saved, err := svc.SaveInvoice(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, 22.0, saved.Total)
	assert.Equal(t, 10.0, saved.Items[0].Price)
	assert.Equal(t, 12.0, saved.Items[1].Price)
}

func TestBuildDraftIgnoresNegativeShownPrice(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	tea, _ := svc.AddProduct(ctx, ProductInput{Name: "Tea", Price: 3})
	bad := -1.0

	d := svc.BuildDraft("", "", []LineInput{{ProductID: tea.ID, Qty: 2, Price: &bad}})
	assert.Equal(t, 6.0, d.Total())
	assert.Equal(t, "Tea", d.Lines[0].Name)
}

func TestInvoicesNewestFirst(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	shop, _ := svc.AddShop(ctx, ShopInput{Name: "Market A"})
	first, err := svc.SaveInvoice(ctx, svc.BuildDraft("", shop.ID, nil))
	require.NoError(t, err)
	second, err := svc.SaveInvoice(ctx, svc.BuildDraft("", shop.ID, nil))
	require.NoError(t, err)

	got := svc.Invoices("")
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestRemoveLine(t *testing.T) {
	d := &InvoiceDraft{Lines: []DraftLine{
		{InvoiceItem: models.InvoiceItem{ProductID: "a", Qty: 1, Price: 1}, Known: true},
		{InvoiceItem: models.InvoiceItem{ProductID: "b", Qty: 1, Price: 2}, Known: true},
	}}
	d.RemoveLine(5)
	d.RemoveLine(0)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, "b", d.Lines[0].ProductID)
	assert.Equal(t, 2.0, d.Total())
}

func TestDeletingShopKeepsInvoices(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	shop, _ := svc.AddShop(ctx, ShopInput{Name: "Market A"})
	inv, err := svc.SaveInvoice(ctx, svc.BuildDraft("", shop.ID, nil))
	require.NoError(t, err)

	_, err = svc.DeleteShop(ctx, shop.ID)
	require.NoError(t, err)
	got, ok := svc.Invoice(inv.ID)
	require.True(t, ok)
	assert.Equal(t, "Market A", got.ShopName)
	assert.Len(t, svc.Invoices("market"), 1)
}

func TestSummaryAndClearAll(t *testing.T) {
	svc := newTestInventory(t)
	ctx := context.Background()
	p, _ := svc.AddProduct(ctx, ProductInput{Name: "Tea", Price: 0.1})
	shop, _ := svc.AddShop(ctx, ShopInput{Name: "Market A"})
	for i := 0; i < 3; i++ {
		_, err := svc.SaveInvoice(ctx, svc.BuildDraft("", shop.ID, []LineInput{{ProductID: p.ID, Qty: 1}}))
		require.NoError(t, err)
	}

	sum := svc.Summary()
	assert.Equal(t, Summary{Products: 1, Shops: 1, Invoices: 3, Revenue: 0.3}, sum)

	require.NoError(t, svc.ClearAll(ctx))
	assert.Equal(t, Summary{}, svc.Summary())
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewInventoryService(state.New(models.EmptyState(), failingPersister{err: boom}))

	_, err := svc.AddProduct(context.Background(), ProductInput{Name: "Tea", Price: 1})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, svc.Products(""))
}
