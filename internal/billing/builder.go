package billing

import (
	"sync"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
)

// Builder holds the ordered line items of the bill currently being assembled
// at a register. All mutations validate against catalog stock before touching
// the list: a rejected call leaves the bill exactly as it was.
type Builder struct {
	mu    sync.Mutex
	items []domain.BillItem
}

func NewBuilder() *Builder {
	return &Builder{items: make([]domain.BillItem, 0, 8)}
}

// AddItem appends quantity units of product to the bill, merging with an
// existing line for the same product. The merged quantity must not exceed the
// product's available stock.
func (b *Builder) AddItem(product domain.Product, quantity int) error {
	if quantity < 1 {
		return store.ErrInvalidArgument
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].Product.ID != product.ID {
			continue
		}
		newQuantity := b.items[i].Quantity + quantity
		if newQuantity > product.Quantity {
			return store.ErrInsufficientStock
		}
		b.items[i].Product = product
		b.items[i].Quantity = newQuantity
		b.items[i].TotalPriceCents = product.PriceCents * int64(newQuantity)
		return nil
	}

	if quantity > product.Quantity {
		return store.ErrInsufficientStock
	}
	b.items = append(b.items, domain.BillItem{
		Product:         product,
		Quantity:        quantity,
		TotalPriceCents: product.PriceCents * int64(quantity),
	})
	return nil
}

func (b *Builder) RemoveItem(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return store.ErrNotFound
	}
	b.items = append(b.items[:index], b.items[index+1:]...)
	return nil
}

// SetItemQuantity replaces the quantity of the line at index. The caller
// supplies a freshly loaded product so the check runs against current stock;
// there is no zero-removal path, callers use RemoveItem instead.
func (b *Builder) SetItemQuantity(index int, quantity int, product domain.Product) error {
	if quantity < 1 {
		return store.ErrInvalidArgument
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return store.ErrNotFound
	}
	if b.items[index].Product.ID != product.ID {
		return store.ErrInvalidArgument
	}
	if quantity > product.Quantity {
		return store.ErrInsufficientStock
	}

	b.items[index].Product = product
	b.items[index].Quantity = quantity
	b.items[index].TotalPriceCents = product.PriceCents * int64(quantity)
	return nil
}

func (b *Builder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = b.items[:0]
}

func (b *Builder) Total() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := int64(0)
	for _, item := range b.items {
		total += item.TotalPriceCents
	}
	return total
}

// Items returns a copy of the current line items in insertion order.
func (b *Builder) Items() []domain.BillItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]domain.BillItem, len(b.items))
	copy(items, b.items)
	return items
}

func (b *Builder) ItemAt(index int) (domain.BillItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.items) {
		return domain.BillItem{}, store.ErrNotFound
	}
	return b.items[index], nil
}

func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// ItemCount is the total number of units across all lines.
func (b *Builder) ItemCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, item := range b.items {
		count += item.Quantity
	}
	return count
}
