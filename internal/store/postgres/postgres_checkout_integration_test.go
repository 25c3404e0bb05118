package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"retailpos/backend/internal/domain"
)

func TestCreateBillDecrementsStockAndCountsSales(t *testing.T) {
	databaseURL := os.Getenv("RETAILPOS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set RETAILPOS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stamp := time.Now().UnixNano()
	productID := fmt.Sprintf("prod-checkout-it-%d", stamp)
	barcode := fmt.Sprintf("8990000%d", stamp)
	billID := fmt.Sprintf("bill-checkout-it-%d", stamp)
	userID := "cashier"

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM bill_items WHERE bill_id = $1`, billID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, billID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	})

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, barcode, category, price_cents, quantity, cost_price_cents, sales_count, created_at, updated_at)
		VALUES ($1, 'Checkout IT Product', $2, 'snack', 500, 10, 300, 0, now(), now())
	`, productID, barcode); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	bill := domain.Bill{
		ID:     billID,
		UserID: userID,
		Items: []domain.BillItem{
			{
				Product:  domain.Product{ID: productID, Name: "Checkout IT Product", Barcode: barcode, Category: "snack", PriceCents: 500},
				Quantity: 3,
			},
		},
	}

	created, err := s.CreateBill(ctx, bill)
	if err != nil {
		t.Fatalf("create bill: %v", err)
	}
	if created.TotalAmountCents != 1500 {
		t.Fatalf("expected total 1500, got %d", created.TotalAmountCents)
	}
	if created.Status != domain.BillStatusCompleted {
		t.Fatalf("expected status completed, got %s", created.Status)
	}

	var quantity, salesCount int
	if err := s.db.QueryRowContext(ctx, `
		SELECT quantity, sales_count
		FROM products
		WHERE id = $1
	`, productID).Scan(&quantity, &salesCount); err != nil {
		t.Fatalf("query product: %v", err)
	}
	if quantity != 7 {
		t.Fatalf("expected quantity 7 after checkout, got %d", quantity)
	}
	if salesCount != 3 {
		t.Fatalf("expected sales count 3 after checkout, got %d", salesCount)
	}

	bills, err := s.ListBills(ctx, userID)
	if err != nil {
		t.Fatalf("list bills: %v", err)
	}
	found := false
	for _, b := range bills {
		if b.ID == billID {
			found = true
			if len(b.Items) != 1 {
				t.Fatalf("expected 1 line item, got %d", len(b.Items))
			}
			if b.Items[0].TotalPriceCents != 1500 {
				t.Fatalf("expected line total 1500, got %d", b.Items[0].TotalPriceCents)
			}
		}
	}
	if !found {
		t.Fatalf("expected bill %s in user history", billID)
	}
}
