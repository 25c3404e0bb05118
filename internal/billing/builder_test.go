package billing

import (
	"errors"
	"testing"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
)

func sampleProduct() domain.Product {
	return domain.Product{
		ID:         "prod-1",
		Name:       "Instant Noodles",
		Barcode:    "123",
		Category:   "grocery",
		PriceCents: 200,
		Quantity:   3,
	}
}

func TestAddItemComputesLineTotal(t *testing.T) {
	builder := NewBuilder()
	product := sampleProduct()

	if err := builder.AddItem(product, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	items := builder.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].TotalPriceCents != 400 {
		t.Fatalf("expected line total 400, got %d", items[0].TotalPriceCents)
	}
	if builder.Total() != 400 {
		t.Fatalf("expected bill total 400, got %d", builder.Total())
	}
	if builder.ItemCount() != 2 {
		t.Fatalf("expected item count 2, got %d", builder.ItemCount())
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	builder := NewBuilder()
	product := sampleProduct()

	if err := builder.AddItem(product, 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := builder.AddItem(product, 2); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	items := builder.Items()
	if len(items) != 1 {
		t.Fatalf("expected merged single line, got %d lines", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", items[0].Quantity)
	}
	if items[0].TotalPriceCents != 600 {
		t.Fatalf("expected line total 600, got %d", items[0].TotalPriceCents)
	}
}

func TestAddItemRejectsExceedingStock(t *testing.T) {
	builder := NewBuilder()
	product := sampleProduct() // quantity 3

	if err := builder.AddItem(product, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	err := builder.AddItem(product, 2)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The failed add must leave the bill untouched.
	items := builder.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected bill unchanged at quantity 2, got %+v", items)
	}
	if builder.Total() != 400 {
		t.Fatalf("expected total 400 after rejected add, got %d", builder.Total())
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	builder := NewBuilder()

	err := builder.AddItem(sampleProduct(), 0)
	if !errors.Is(err, store.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if builder.Len() != 0 {
		t.Fatalf("expected empty bill, got %d lines", builder.Len())
	}
}

func TestRemoveItemOutOfRange(t *testing.T) {
	builder := NewBuilder()
	if err := builder.AddItem(sampleProduct(), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := builder.RemoveItem(5); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for out-of-range index, got %v", err)
	}
	if err := builder.RemoveItem(-1); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for negative index, got %v", err)
	}

	if err := builder.RemoveItem(0); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if builder.Len() != 0 {
		t.Fatalf("expected empty bill after remove, got %d lines", builder.Len())
	}
	if builder.Total() != 0 {
		t.Fatalf("expected total 0 after remove, got %d", builder.Total())
	}
}

func TestSetItemQuantityRecomputesTotal(t *testing.T) {
	builder := NewBuilder()
	product := sampleProduct()
	if err := builder.AddItem(product, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := builder.SetItemQuantity(0, 3, product); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if builder.Total() != 600 {
		t.Fatalf("expected total 600, got %d", builder.Total())
	}

	err := builder.SetItemQuantity(0, 4, product)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock beyond stock ceiling, got %v", err)
	}
	if builder.Total() != 600 {
		t.Fatalf("expected total unchanged at 600, got %d", builder.Total())
	}
}

func TestClearIsIdempotent(t *testing.T) {
	builder := NewBuilder()
	if err := builder.AddItem(sampleProduct(), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	builder.Clear()
	if builder.Len() != 0 || builder.Total() != 0 {
		t.Fatalf("expected empty bill after clear")
	}

	builder.Clear()
	if builder.Len() != 0 || builder.Total() != 0 {
		t.Fatalf("expected clear on empty bill to be a no-op")
	}
}

func TestTotalIsSumOfLineTotals(t *testing.T) {
	builder := NewBuilder()
	first := sampleProduct()
	second := domain.Product{ID: "prod-2", Name: "UHT Milk 1L", Barcode: "456", Category: "dairy", PriceCents: 1890, Quantity: 10}

	if err := builder.AddItem(first, 2); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if err := builder.AddItem(second, 3); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	var sum int64
	for _, item := range builder.Items() {
		sum += item.TotalPriceCents
	}
	if builder.Total() != sum {
		t.Fatalf("expected total %d to equal sum of line totals %d", builder.Total(), sum)
	}
	if builder.Total() != 400+5670 {
		t.Fatalf("expected total 6070, got %d", builder.Total())
	}
}
